package device

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/nsf/termbox-go"

	"github.com/sigflow/sigflow"
	"github.com/sigflow/sigflow/sched"
)

// TermSource turns the local terminal into an input device: keys become
// boolean press nodes ("key:a", "key:space", ...), the mouse position a
// vector node ("mouse"), and the wheel an accumulating scalar node
// ("wheel"). Terminals report no key-up, so a key press pulses true then
// false, which lets Down fire once per press.
type TermSource struct {
	loop     *sched.Loop
	controls *Controls
}

func NewTermSource(loop *sched.Loop, registry *sigflow.Registry) *TermSource {
	return &TermSource{
		loop:     loop,
		controls: NewControls(registry),
	}
}

func (self *TermSource) Controls() *Controls {
	return self.controls
}

// Run owns the terminal until ctx is done or escape is pressed.
func (self *TermSource) Run(ctx context.Context) error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	glog.V(1).Infof("[term]start\n")

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	wheel := 0.0
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-events:
			switch event.Type {
			case termbox.EventKey:
				if event.Key == termbox.KeyEsc {
					return nil
				}
				name := keyName(event)
				button := self.controls.Button("key:" + name)
				self.loop.Post(func() {
					button.Emit(true)
					button.Emit(false)
				})
			case termbox.EventMouse:
				switch event.Key {
				case termbox.MouseWheelUp, termbox.MouseWheelDown:
					if event.Key == termbox.MouseWheelUp {
						wheel += 1
					} else {
						wheel -= 1
					}
					steps := wheel
					scalar := self.controls.Scalar("wheel")
					self.loop.Post(func() {
						scalar.Emit(steps)
					})
				default:
					position := sigflow.Vec2{
						X: float64(event.MouseX),
						Y: float64(event.MouseY),
					}
					vector := self.controls.Vector("mouse")
					self.loop.Post(func() {
						vector.Emit(position)
					})
				}
			case termbox.EventError:
				return event.Err
			}
		}
	}
}

func keyName(event termbox.Event) string {
	if event.Ch != 0 {
		return string(event.Ch)
	}
	switch event.Key {
	case termbox.KeySpace:
		return "space"
	case termbox.KeyEnter:
		return "enter"
	case termbox.KeyTab:
		return "tab"
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return "backspace"
	case termbox.KeyArrowUp:
		return "up"
	case termbox.KeyArrowDown:
		return "down"
	case termbox.KeyArrowLeft:
		return "left"
	case termbox.KeyArrowRight:
		return "right"
	default:
		return fmt.Sprintf("0x%x", uint16(event.Key))
	}
}
