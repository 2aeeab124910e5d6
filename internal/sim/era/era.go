package era

// Era is a named geological time span. Ordering is by YearsAgo: a larger
// value is further in the past.
type Era struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	YearsAgo float64 `yaml:"years_ago" json:"years_ago"`

	Creatures []CreatureDescriptor `yaml:"creatures" json:"creatures"`
}

// CreatureDescriptor describes one placeable creature. The content layer owns
// these; the placement engine only reads them.
type CreatureDescriptor struct {
	ID                   string   `yaml:"id" json:"id"`
	RealWorldScaleMeters float64  `yaml:"real_world_scale_m" json:"real_world_scale_m"`
	SupportedAnimations  []string `yaml:"animations" json:"animations,omitempty"`
}
