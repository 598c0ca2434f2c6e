package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Clear      bool
	BatchFile  string
	History    int
	NoHistory  bool
	ListModels bool
	Verbose    bool

	// Translation flags
	Provider string
	Source   string
	Target   string

	// Output flags
	Color   string
	Concise bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider: "tencent",
		Color:    "auto",
	}
}
