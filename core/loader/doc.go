// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which reports its name and
// whether it is enabled, and registers its routes on Load.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll()
//
// The devices and inspection features are registered this way by cmd/start.
package loader
