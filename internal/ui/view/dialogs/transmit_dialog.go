//go:build windows

package dialogs

import (
	"github.com/lxn/walk"
	d "github.com/lxn/walk/declarative"
)

// AskTransmitMessage запрашивает у оператора текст для TX.
// Второе значение false, если оператор нажал "Отмена" или закрыл окно.
func AskTransmitMessage(owner walk.Form) (string, bool) {
	var dlg *walk.Dialog
	var msgLE *walk.LineEdit
	var okPB, cancelPB *walk.PushButton

	err := d.Dialog{
		AssignTo:      &dlg,
		Title:         "Transmit Message",
		MinSize:       d.Size{Width: 320, Height: 120},
		Layout:        d.VBox{},
		DefaultButton: &okPB,
		CancelButton:  &cancelPB,
		Children: []d.Widget{
			d.Label{Text: "Enter message to send:"},
			d.LineEdit{AssignTo: &msgLE, Font: d.Font{Family: "Consolas", PointSize: 10}},
			d.Composite{
				Layout: d.HBox{MarginsZero: true},
				Children: []d.Widget{
					d.HSpacer{},
					d.PushButton{
						AssignTo:  &okPB,
						Text:      "OK",
						OnClicked: func() { dlg.Accept() },
					},
					d.PushButton{
						AssignTo:  &cancelPB,
						Text:      "Cancel",
						OnClicked: func() { dlg.Cancel() },
					},
				},
			},
		},
	}.Create(owner)
	if err != nil {
		walk.MsgBox(owner, "Error", err.Error(), walk.MsgBoxIconError)
		return "", false
	}

	if dlg.Run() != walk.DlgCmdOK {
		return "", false
	}
	return msgLE.Text(), true
}
