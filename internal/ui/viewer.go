package ui

import "story/internal/domain"

// Viewer displays a finished run interactively
type Viewer interface {
	View(run domain.Run) error
}
