package output

// ObjectInfo describes a resolved config object.
type ObjectInfo struct {
	Name         string            `json:"name" yaml:"name"`
	Type         string            `json:"type" yaml:"type"`
	Path         string            `json:"path" yaml:"path"`
	Dependencies map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// TreeNode is one node of the config file tree.
type TreeNode struct {
	Name     string     `json:"name" yaml:"name"`
	Path     string     `json:"path" yaml:"path"`
	Dir      bool       `json:"dir,omitempty" yaml:"dir,omitempty"`
	Object   string     `json:"object,omitempty" yaml:"object,omitempty"`
	Children []TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// DepNode is one node of the dependency tree.
type DepNode struct {
	Name         string    `json:"name" yaml:"name"`
	Type         string    `json:"type" yaml:"type"`
	Dependencies []DepNode `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// OrderOutput is the structured form of the execution order.
type OrderOutput struct {
	Levels       [][]string `json:"levels" yaml:"levels"`
	TotalObjects int        `json:"total_objects" yaml:"total_objects"`
	TotalEdges   int        `json:"total_edges" yaml:"total_edges"`
}

// TypeInfo describes a registered type.
type TypeInfo struct {
	Name         string            `json:"name" yaml:"name"`
	Base         string            `json:"base,omitempty" yaml:"base,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Options      []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// DoctorOutput is the structured form of the health report.
type DoctorOutput struct {
	Summary  DoctorSummary `json:"summary" yaml:"summary"`
	Checks   []CheckResult `json:"checks" yaml:"checks"`
	Healthy  bool          `json:"healthy" yaml:"healthy"`
	Problems int           `json:"problems" yaml:"problems"`
}

// DoctorSummary holds project-level counts.
type DoctorSummary struct {
	Files   int `json:"files" yaml:"files"`
	Configs int `json:"configs" yaml:"configs"`
	Objects int `json:"objects" yaml:"objects"`
	Types   int `json:"types" yaml:"types"`
	Edges   int `json:"edges" yaml:"edges"`
	Depth   int `json:"depth" yaml:"depth"`
}

// CheckResult is the outcome of one health check.
type CheckResult struct {
	Category string `json:"category" yaml:"category"`
	Name     string `json:"name" yaml:"name"`
	Passed   bool   `json:"passed" yaml:"passed"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

// IndexOutput reports a saved snapshot.
type IndexOutput struct {
	SnapshotID   string `json:"snapshot_id" yaml:"snapshot_id"`
	StatePath    string `json:"state_path" yaml:"state_path"`
	Objects      int    `json:"objects" yaml:"objects"`
	Dependencies int    `json:"dependencies" yaml:"dependencies"`
}
