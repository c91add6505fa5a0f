// Package services implements the driving port interfaces.
// Services contain the core classification logic and orchestrate
// calls to driven ports (detectors, stores, config).
//
// Services are pure Go with no CGO dependencies.
package services
