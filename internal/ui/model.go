package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/copyrows/internal/config"
	"github.com/nconklindev/copyrows/internal/converter"
	"github.com/nconklindev/copyrows/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ErrCanceled is returned by Model.Err when the user quits mid-copy.
var ErrCanceled = errors.New("copy canceled")

type state int

const (
	stateFilePicker state = iota
	stateOptions
	stateProcessing
	stateComplete
	stateError
)

// Form fields, in tab order.
const (
	fieldOutput = iota
	fieldCount
	fieldMode
	fieldSheet
	fieldSeed
	numFields
)

var fieldLabels = [numFields]string{
	fieldOutput: "Output file",
	fieldCount:  "Rows (N)",
	fieldMode:   "Mode",
	fieldSheet:  "Sheet name",
	fieldSeed:   "Seed",
}

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	inputs       []textinput.Model
	focus        int
	formErr      error
	result       *types.CopyResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.CopyResult
	err    error
}

type conversionCompleteMsg struct {
	result *types.CopyResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel starts at the file picker, or at the options form when
// inputPath is already known.
func InitialModel(inputPath string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xls", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	prog := progress.New(progress.WithGradient("#FF8C42", "#FF9F5A"))

	m := Model{
		state:      stateFilePicker,
		filepicker: fp,
		inputs:     newInputs(),
		progress:   prog,
	}

	if inputPath != "" {
		m = m.selectFile(inputPath)
	}

	return m
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, numFields)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(accent)
		inputs[i] = ti
	}

	inputs[fieldCount].SetValue("10")
	inputs[fieldCount].CharLimit = 20
	inputs[fieldMode].SetValue(string(types.ModeHead))
	inputs[fieldMode].Placeholder = "head | tail | random"
	inputs[fieldSheet].Placeholder = "first sheet"
	inputs[fieldSeed].Placeholder = "none"

	return inputs
}

// selectFile moves to the options form with an output path derived from path.
func (m Model) selectFile(path string) Model {
	m.selectedFile = path
	m.inputs[fieldOutput].SetValue(defaultOutputPath(path))
	m.state = stateOptions
	m.focus = fieldOutput
	m.inputs[fieldOutput].Focus()
	return m
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_rows" + ext
}

func (m Model) Init() tea.Cmd {
	if m.state == stateFilePicker {
		return m.filepicker.Init()
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help lines.
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateOptions:
			switch msg.String() {
			case "ctrl+c", "esc":
				return m, tea.Quit
			case "tab", "down":
				return m.setFocus((m.focus + 1) % numFields)
			case "shift+tab", "up":
				return m.setFocus((m.focus + numFields - 1) % numFields)
			case "enter":
				return m.submit()
			}
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd

		case stateProcessing:
			if msg.String() == "ctrl+c" {
				m.err = ErrCanceled
				return m, tea.Quit
			}

		case stateComplete, stateError:
			return m, tea.Quit
		}

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	switch m.state {
	case stateFilePicker:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m = m.selectFile(path)
			return m, textinput.Blink
		}

		return m, cmd

	case stateOptions:
		// Cursor blink and other non-key messages.
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) setFocus(i int) (Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

// args lays the form out the same way as the command-line positionals.
func (m Model) args() []string {
	return []string{
		m.selectedFile,
		strings.TrimSpace(m.inputs[fieldOutput].Value()),
		strings.TrimSpace(m.inputs[fieldCount].Value()),
		strings.TrimSpace(m.inputs[fieldMode].Value()),
		m.inputs[fieldSheet].Value(),
		strings.TrimSpace(m.inputs[fieldSeed].Value()),
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	cfg, err := config.Parse(m.args())
	if err != nil {
		m.formErr = err
		return m, nil
	}
	m.formErr = nil
	m.state = stateProcessing
	return m.copyRows(cfg)
}

func (m Model) copyRows(cfg *config.Config) (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := converter.CopyRows(cfg, progressChan)

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress is closed once the copy has finished.
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateOptions:
		return m.viewOptions()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Copy Rows"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV, XLS or XLSX file to copy rows from"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewOptions() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Copy Options"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	for i := range m.inputs {
		label := fmt.Sprintf("%-12s", fieldLabels[i])
		if i == m.focus {
			label = SelectedStyle.Render("> " + label)
		} else {
			label = UnselectedStyle.Render("  " + label)
		}
		s.WriteString(label)
		s.WriteString(" ")
		s.WriteString(m.inputs[i].View())
		s.WriteString("\n")
	}

	if m.formErr != nil {
		s.WriteString("\n")
		s.WriteString(ErrorStyle.Render("✗ " + m.formErr.Error()))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("tab/↑/↓: move • enter: copy • esc: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Copying rows...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("ctrl+c: cancel"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Copy Complete!"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Mode: %s\n", m.result.Mode))
	s.WriteString(fmt.Sprintf("Rows copied: %s of %s\n", humanize.Comma(int64(m.result.RowsWritten)), humanize.Comma(int64(m.result.RowsRead))))
	s.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(m.result.Columns, ", ")))
	s.WriteString(fmt.Sprintf("Size: %s\n", humanize.Bytes(uint64(m.result.OutputBytes))))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, maxLen int) string {
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}

// Err returns the copy error after the program has quit, if any.
func (m Model) Err() error {
	return m.err
}
