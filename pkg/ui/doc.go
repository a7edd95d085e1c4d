// Package ui holds presentation state shared by the client: a loading flag,
// a single transient alert and a confirmation dialog.
//
// The store renders nothing. Front ends observe it through WithOnChange or
// by polling State:
//
//	store := ui.New(ui.WithOnChange(func(s ui.State) {
//		if s.Alert.Show {
//			fmt.Println(s.Alert.Message)
//		}
//	}))
//	store.ShowAlert("Saved", ui.AlertSuccess)
//
// Alerts hide themselves after DefaultAlertTimeout unless ShowAlertFor is
// called with a zero timeout. Confirm blocks until ResolveConfirm answers it
// or its context ends.
package ui
