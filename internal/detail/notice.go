package detail

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient message for the user.
type Notice struct {
	Level Level
	Text  string
}

const (
	msgFetchFailed   = "Failed to fetch student details."
	msgFieldsMissing = "All fields are required!"
	msgUpdating      = "Updating student..."
	msgUpdated       = "Student updated successfully!"
	msgUpdateFailed  = "Failed to update student."
	msgDeleting      = "Deleting student..."
	msgDeleted       = "Student deleted successfully!"
	msgDeleteFailed  = "Failed to delete student."
	msgAlreadyGone   = "Student was already deleted."
)

// Notices returns the queued notices, oldest first.
func (c *Controller) Notices() []Notice {
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Dismiss removes the notice at index i. Out of range indexes are ignored.
func (c *Controller) Dismiss(i int) {
	if i < 0 || i >= len(c.notices) {
		return
	}
	c.notices = append(c.notices[:i], c.notices[i+1:]...)
}

// DismissAll clears the notice queue.
func (c *Controller) DismissAll() {
	c.notices = nil
}

func (c *Controller) notify(level Level, text string) {
	c.notices = append(c.notices, Notice{Level: level, Text: text})
}
