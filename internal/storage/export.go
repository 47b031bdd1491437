package storage

import (
	"encoding/json"
	"io"
)

type ParticleState struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type ExportData struct {
	RunMetadata
	Final  []ParticleState      `json:"final"`
	Series map[string][]float64 `json:"series"`
	Times  []float64            `json:"times"`
}

// Export loads everything saved for a run and writes it as one JSON document.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	final, err := s.LoadFinal(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Final:       make([]ParticleState, final.Len()),
		Series:      make(map[string][]float64, len(series)),
		Times:       []float64{},
	}
	for i := range data.Final {
		data.Final[i] = ParticleState{X: final.X[i], Y: final.Y[i], VX: final.VX[i], VY: final.VY[i]}
	}
	for _, sr := range series {
		values := make([]float64, len(sr.Samples))
		for i, smp := range sr.Samples {
			values[i] = smp.Value
		}
		data.Series[sr.Name] = values
		if len(sr.Samples) > len(data.Times) {
			data.Times = make([]float64, len(sr.Samples))
			for i, smp := range sr.Samples {
				data.Times[i] = smp.Time
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
