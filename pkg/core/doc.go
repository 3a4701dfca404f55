// Package core defines the shared language of the projgraph system.
//
// This package contains:
//   - Filesystem snapshot types (FileTreeNode, RawConfig)
//   - Type metadata (TypeDescriptor, OptionSpec)
//   - The resolved graph (ConfigObject, ProjectConfig, TypeGroup)
//   - The error taxonomy shared by every stage of resolution
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
