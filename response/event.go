// SPDX-License-Identifier: MIT

package response

// Event is one simulated detection: the generated (true) energy, the
// energy measured by the detector and the detector channel index.
type Event struct {
	Channel int
	ETrue   float64
	EMeas   float64
}
