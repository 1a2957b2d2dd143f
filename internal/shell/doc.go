// Package shell is the terminal login screen in front of the session
// controller.
//
// On a terminal the screen runs in raw mode and handles keys one by one:
//
//	Tab            switch between the email and password fields
//	Enter          move from email to password / submit from password
//	Backspace      delete the last character of the active field
//	Ctrl-E/Ctrl-P  focus the email / password field
//	Ctrl-R         request password recovery for the typed email
//	Ctrl-C/Ctrl-D  quit
//
// When input is not a terminal (a pipe, a test) it falls back to a
// line-oriented mode: one line for the email, one for the password, and
// the commands "recover" and "exit" at the email prompt.
//
// Both modes build a Form, whose password buffer is capped at 10 bytes, and
// hand it to session.Controller.Submit. A lockout ends the session after a
// configurable pause that is cut short when the context is cancelled.
package shell
