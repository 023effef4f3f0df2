package session

// History is the screen back stack.
type History struct {
	stack []Route
}

// NewHistory starts the stack at start.
func NewHistory(start Route) *History {
	return &History{stack: []Route{start}}
}

// Current returns the top of the stack.
func (h *History) Current() Route {
	return h.stack[len(h.stack)-1]
}

// Navigate pushes to. When popUpTo is on the stack, entries above it are
// popped first, and popUpTo itself too when inclusive. Navigating to the
// current route does not push a second copy.
func (h *History) Navigate(to, popUpTo Route, inclusive bool) {
	if popUpTo != "" {
		for i := len(h.stack) - 1; i >= 0; i-- {
			if h.stack[i] != popUpTo {
				continue
			}
			if inclusive {
				h.stack = h.stack[:i]
			} else {
				h.stack = h.stack[:i+1]
			}
			break
		}
	}
	if len(h.stack) > 0 && h.Current() == to {
		return
	}
	h.stack = append(h.stack, to)
}

// Back pops the current route. It reports false, leaving the stack intact,
// when there is nothing to go back to.
func (h *History) Back() (Route, bool) {
	if len(h.stack) < 2 {
		return h.Current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), true
}

// Depth returns the number of routes on the stack.
func (h *History) Depth() int {
	return len(h.stack)
}
