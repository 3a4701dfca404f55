package core

// RootApp is the app name reported for config files at the project root.
const RootApp = "."

// RawConfig is the parsed JSON content of one config file plus positional metadata.
type RawConfig struct {
	// Path is the project-relative path, slash separated
	Path string `json:"path"`
	// AbsPath is the absolute filesystem path
	AbsPath string `json:"-"`
	// Name is the explicit "name" field, or the file base name without extension
	Name string `json:"name"`
	// DirName is the containing directory's base name ("." at the root)
	DirName string `json:"dirName"`
	// AppName is the first path segment ("." at the root)
	AppName string `json:"appName"`
	// Extension includes the leading dot
	Extension string `json:"extension"`
	// Data is the decoded JSON object
	Data map[string]any `json:"data"`
}

// Module returns the declared type name, or "" when the file declares none.
// "module" takes precedence over "type".
func (c *RawConfig) Module() string {
	if c == nil {
		return ""
	}
	for _, key := range []string{"module", "type"} {
		if s, ok := c.Data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Options returns the "options" object, or nil.
func (c *RawConfig) Options() map[string]any {
	if c == nil {
		return nil
	}
	opts, _ := c.Data["options"].(map[string]any)
	return opts
}

// DeclaredDependencies returns the per-object dependency slots (slot -> required type).
// Non-string entries are ignored.
func (c *RawConfig) DeclaredDependencies() map[string]string {
	if c == nil {
		return nil
	}
	raw, ok := c.Data["dependencies"].(map[string]any)
	if !ok {
		return nil
	}
	deps := make(map[string]string, len(raw))
	for slot, v := range raw {
		if typ, ok := v.(string); ok && typ != "" {
			deps[slot] = typ
		}
	}
	return deps
}
