package dto

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type CitekeyItem struct {
	Key     string
	Type    string
	Title   string
	Authors []string
	Date    string
	Extra   string
}

type ResolveCitekeysInput struct {
	Items []CitekeyItem
}

type ResolveCitekeysOutput struct {
	// Citekeys maps item keys to citation keys; unresolved items are absent.
	Citekeys map[string]string
	// ResolvedBy names the plugin that produced each key.
	ResolvedBy map[string]string
}
