package pathway

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Key    string  `json:"key,omitempty"`
	Index  int     `json:"index,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptKeys = map[string]Key{
	"next":  KeyNext,
	"right": KeyNext,
	"prev":  KeyPrevious,
	"left":  KeyPrevious,
	"close": KeyClose,
	"esc":   KeyClose,
}

var scriptActions = map[string]bool{
	"move": true, "click": true, "key": true,
	"next": true, "prev": true, "goto": true,
	"wait": true, "settle": true, "screenshot": true,
}

// ScriptRunner sequences injected input, navigation commands and
// screenshots across frames for automated visual checks. Attach to a Window
// via SetScriptRunner.
type ScriptRunner struct {
	// ExitWhenDone closes the window once every step has run.
	ExitWhenDone bool

	steps     []scriptStep
	cursor    int
	waitCount int
	settling  bool
	done      bool
}

// LoadScript parses a JSON input script. Unknown actions and keys are
// rejected up front.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "key" {
			if _, ok := scriptKeys[st.Key]; !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown key %q", i, st.Key)
			}
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches r. Its step method runs at the start of every
// Update, before input is processed.
func (w *Window) SetScriptRunner(r *ScriptRunner) {
	w.runner = r
}

// Done reports whether every step has executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(w *Window) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(w.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.settling {
		if c := w.controller; c != nil && c.IsNavigating() {
			return
		}
		r.settling = false
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	c := w.controller
	switch st.Action {
	case "screenshot":
		w.Screenshot(st.Label)
	case "move":
		w.InjectMove(st.X, st.Y)
	case "click":
		w.InjectClick(st.X, st.Y)
	case "key":
		w.InjectKey(scriptKeys[st.Key])
	case "next", "prev", "goto":
		if c == nil {
			w.logger.Warn("script: no controller", slog.String("action", st.Action))
			break
		}
		switch st.Action {
		case "next":
			c.RequestNext()
		case "prev":
			c.RequestPrevious()
		default:
			c.RequestGoTo(st.Index)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "settle":
		r.settling = true
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.settling && len(w.injectQueue) == 0 {
		r.done = true
	}
}
