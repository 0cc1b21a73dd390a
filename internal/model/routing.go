package model

// Routing labels.
const (
	// DirectClientCategory is the routing category of notes that are neither
	// bound to a distribution center nor redispatched.
	DirectClientCategory = "DIRETO CLIENTE"
	// RedispatchCategory is the bucket label used by the generic redispatch policy.
	RedispatchCategory = "REDESPACHO"
	// DirectDeliveryLabel marks notes without redispatch on the conference document.
	DirectDeliveryLabel = "ENTREGA DIRETA"
)

// Aggregate holds the summed metrics of a group of notes.
type Aggregate struct {
	Cubage    float64 `json:"cubage" yaml:"cubage"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Volumes   float64 `json:"volumes" yaml:"volumes"`
	NoteCount int     `json:"note_count" yaml:"note_count"`
}

// Add accumulates another aggregate into a.
func (a *Aggregate) Add(other Aggregate) {
	a.Cubage += other.Cubage
	a.Weight += other.Weight
	a.Volumes += other.Volumes
	a.NoteCount += other.NoteCount
}

// CategoryTotal is the aggregate of every note routed to one category.
type CategoryTotal struct {
	Category  string `json:"category" yaml:"category"`
	Aggregate `yaml:",inline"`
}

// Allocation holds the KIT/MIX planning figures derived from total cubage.
type Allocation struct {
	Adjusted float64 `json:"adjusted" yaml:"adjusted"`
	Base     float64 `json:"base" yaml:"base"`
	Kit      float64 `json:"kit" yaml:"kit"`
	Mix      float64 `json:"mix" yaml:"mix"`
}
