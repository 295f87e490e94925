package cmd

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/unit"
)

// runDebugTUI is a full-screen debugger with live register, disassembly,
// and memory hex-dump panes, built on UnitDevice's existing
// snapshot/restore/backstep operations.
func runDebugTUI(dev *unit.UnitDevice) error {
	app := tview.NewApplication()

	registersView := tview.NewTextView().SetDynamicColors(true)
	registersView.SetBorder(true).SetTitle(" Registers ")

	disasmView := tview.NewTextView().SetDynamicColors(true)
	disasmView.SetBorder(true).SetTitle(" Disassembly ")

	memoryView := tview.NewTextView().SetDynamicColors(true)
	memoryView.SetBorder(true).SetTitle(" Memory ")

	statusView := tview.NewTextView().SetDynamicColors(true)
	statusView.SetBorder(true).SetTitle(" titan debug — n: step, b: backstep, r: run, q: quit ")

	render := func() {
		registers := dev.Registers()

		var registerText strings.Builder
		fmt.Fprintf(&registerText, "pc  0x%08x   hi 0x%08x   lo 0x%08x\n", registers.PC, registers.Hi, registers.Lo)
		for i := 0; i < 32; i += 4 {
			fmt.Fprintf(&registerText, "$%-2d 0x%08x  $%-2d 0x%08x  $%-2d 0x%08x  $%-2d 0x%08x\n",
				i, registers.Line[i], i+1, registers.Line[i+1], i+2, registers.Line[i+2], i+3, registers.Line[i+3])
		}
		registersView.SetText(registerText.String())

		var disasmText strings.Builder
		labels := cpu.HexLabelProvider{}
		var word uint32
		dev.Executor.WithMemory(func(memory cpu.Memory) {
			word, _ = memory.GetU32(registers.PC)
		})
		fmt.Fprintf(&disasmText, "[yellow]> 0x%08x: %s[white]\n", registers.PC, cpu.Disassemble(registers.PC, word, labels))
		for offset := uint32(4); offset <= 16; offset += 4 {
			var next uint32
			dev.Executor.WithMemory(func(memory cpu.Memory) {
				next, _ = memory.GetU32(registers.PC + offset)
			})
			fmt.Fprintf(&disasmText, "  0x%08x: %s\n", registers.PC+offset, cpu.Disassemble(registers.PC+offset, next, labels))
		}
		disasmView.SetText(disasmText.String())

		var memoryText strings.Builder
		base := registers.Line[unit.StackPointer]
		dev.Executor.WithMemory(func(memory cpu.Memory) {
			for row := uint32(0); row < 8; row++ {
				fmt.Fprintf(&memoryText, "0x%08x: ", base+row*16)
				for col := uint32(0); col < 16; col++ {
					b, err := memory.Get(base + row*16 + col)
					if err != nil {
						fmt.Fprint(&memoryText, "?? ")
					} else {
						fmt.Fprintf(&memoryText, "%02x ", b)
					}
				}
				fmt.Fprintln(&memoryText)
			}
		})
		memoryView.SetText(memoryText.String())
	}

	render()

	grid := tview.NewGrid().
		SetRows(0, 0).
		SetColumns(0, 0).
		AddItem(registersView, 0, 0, 1, 1, 0, 0, false).
		AddItem(disasmView, 0, 1, 1, 1, 0, 0, false).
		AddItem(memoryView, 1, 0, 1, 1, 0, 0, false).
		AddItem(statusView, 1, 1, 1, 1, 0, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'n':
			if done := stepOnce(dev); done {
				app.Stop()
				return nil
			}
			render()
		case 'b':
			if dev.Backstep() {
				statusView.SetText("stepped back")
			} else {
				statusView.SetText("nothing to undo")
			}
			render()
		case 'r':
			if err := dev.ExecuteUntil(unit.Complete()); err != nil {
				statusView.SetText(err.Error())
			}
			render()
		case 'q':
			app.Stop()
		}
		return event
	})

	return app.SetRoot(grid, true).Run()
}
