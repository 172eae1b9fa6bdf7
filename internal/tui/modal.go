package tui

import (
	"strings"

	"bricktrack/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type field int

const (
	fieldSearch field = iota
	fieldPhoto
	fieldName
	fieldSetNumber
	fieldPieces
	fieldBags
	fieldTheme
	fieldImageURL
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldSearch:    "modal.search",
	fieldPhoto:     "modal.photo",
	fieldName:      "modal.name",
	fieldSetNumber: "modal.set_number",
	fieldPieces:    "modal.pieces",
	fieldBags:      "modal.bags",
	fieldTheme:     "modal.theme",
	fieldImageURL:  "modal.image_url",
}

// sourceTitleWidth bounds citation titles in the sources list.
const sourceTitleWidth = 20

// modal is the new-set form. Field values mirror a model.Draft plus the
// search query and photo path, which never reach the stored set.
type modal struct {
	inputs  []textinput.Model
	focus   field
	busy    string
	note    string
	noteErr bool
}

func newModal(t func(string, ...any) string, d model.Draft) modal {
	m := modal{inputs: make([]textinput.Model, fieldCount)}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[fieldSearch].Placeholder = t("modal.search_placeholder")
	m.inputs[fieldPhoto].Placeholder = "~/Pictures/box.jpg"
	m.inputs[fieldPieces].CharLimit = 9
	m.inputs[fieldBags].CharLimit = 6
	m.fill(d)
	m.setFocus(fieldSearch)
	return m
}

func (m *modal) setFocus(f field) {
	f = (f%fieldCount + fieldCount) % fieldCount
	for i := range m.inputs {
		if field(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.focus = f
}

func (m *modal) next() { m.setFocus(m.focus + 1) }
func (m *modal) prev() { m.setFocus(m.focus - 1) }

func (m modal) draft() model.Draft {
	return model.Draft{
		Name:        m.value(fieldName),
		SetNumber:   m.value(fieldSetNumber),
		TotalPieces: m.value(fieldPieces),
		TotalBags:   m.value(fieldBags),
		Theme:       m.value(fieldTheme),
		ImageURL:    m.value(fieldImageURL),
	}
}

func (m *modal) fill(d model.Draft) {
	m.inputs[fieldName].SetValue(d.Name)
	m.inputs[fieldSetNumber].SetValue(d.SetNumber)
	m.inputs[fieldPieces].SetValue(d.TotalPieces)
	m.inputs[fieldBags].SetValue(d.TotalBags)
	m.inputs[fieldTheme].SetValue(d.Theme)
	m.inputs[fieldImageURL].SetValue(d.ImageURL)
}

func (m modal) value(f field) string { return strings.TrimSpace(m.inputs[f].Value()) }

func (m *modal) setNote(text string, isErr bool) {
	m.note = text
	m.noteErr = isErr
}

func (m modal) view(t func(string, ...any) string, sources []model.Citation, theme Theme, width int) string {
	labelWidth := 0
	for _, key := range fieldLabels {
		if w := lipgloss.Width(t(key)); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(strings.ToUpper(t("modal.title"))))
	b.WriteString("\n\n")
	for i := range m.inputs {
		label := lipgloss.NewStyle().Width(labelWidth).Render(t(fieldLabels[i]))
		if field(i) == m.focus {
			label = theme.TitleStyle.Render(label)
		} else {
			label = theme.LabelStyle.Render(label)
		}
		b.WriteString(label + "  " + m.inputs[i].View() + "\n")
		if field(i) == fieldPhoto {
			b.WriteString("\n")
		}
	}

	if len(sources) > 0 {
		b.WriteString("\n" + theme.HeaderStyle.Render(t("modal.sources")) + "\n")
		for _, s := range sources {
			title := s.Title
			if title == "" {
				title = s.URI
			}
			b.WriteString("  " + Truncate(title, sourceTitleWidth) + " " + theme.MutedStyle.Render(s.URI) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.busy != "":
		b.WriteString(theme.TimerStyle.Render(t(m.busy)) + "\n")
	case m.note != "" && m.noteErr:
		b.WriteString(theme.ErrorStyle.Render(m.note) + "\n")
	case m.note != "":
		b.WriteString(theme.SuccessStyle.Render(m.note) + "\n")
	}
	b.WriteString(theme.MutedStyle.Render(t("modal.hint")))

	w := width - 4
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return theme.ModalStyle.Width(w).Render(b.String())
}

func (m *modal) setWidth(w int) {
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
}
