// Package ui contains the Fyne desktop window. It wires the URL entry and
// format pickers to the extraction client and the download service; worker
// results reach widgets through fyne.Do. All UI strings are localized via
// Localization.
package ui
