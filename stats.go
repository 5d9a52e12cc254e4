package hips

// SurveyStats is a snapshot of one survey.
type SurveyStats struct {
	URL        string `json:"url"`
	Ready      bool   `json:"ready"`
	Depth      uint8  `json:"depth"`
	Cells      int    `json:"cells"`
	Resident   int    `json:"resident"`
	Capacity   int    `json:"capacity"`
	InFlight   int    `json:"in_flight"`
	MeshBuilds int    `json:"mesh_builds"`
	Culled     int    `json:"culled"`
}

// Stats is a snapshot of a collection after a frame.
type Stats struct {
	Frame      uint64        `json:"frame"`
	Mode       string        `json:"mode"`
	Projection string        `json:"projection"`
	Layers     int           `json:"layers"`
	Surveys    []SurveyStats `json:"surveys"`
}

// Stats returns a snapshot of the collection.
func (c *Collection) Stats() Stats {
	st := Stats{
		Frame:      c.frames,
		Mode:       c.modes.Past().String(),
		Projection: c.proj.Name(),
		Layers:     len(c.layers),
		Surveys:    make([]SurveyStats, 0, len(c.order)),
	}
	for _, url := range c.order {
		s := c.surveys[url]
		st.Surveys = append(st.Surveys, SurveyStats{
			URL:        url,
			Ready:      s.IsReady(),
			Depth:      s.view.Depth(),
			Cells:      s.view.Len(),
			Resident:   s.cache.Len(),
			Capacity:   s.cache.Capacity(),
			InFlight:   s.InFlight(),
			MeshBuilds: s.mesh.Builds(),
			Culled:     s.mesh.Culled(),
		})
	}
	return st
}
