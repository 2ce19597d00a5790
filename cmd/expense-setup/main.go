package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultServerURL = "http://localhost:3000"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

type step int

const (
	stepCheckingServer step = iota
	stepEnteringName
	stepEnteringEmail
	stepEnteringBudget
	stepCreatingUser
	stepComplete
)

type model struct {
	step         step
	serverURL    string
	name         string
	email        string
	budget       float64
	userID       string
	currentInput string
	message      string
	quitting     bool
}

type serverOKMsg struct{}
type userCreatedMsg struct {
	id    string
	email string
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(serverURL string) model {
	return model{
		step:      stepCheckingServer,
		serverURL: serverURL,
	}
}

func (m model) Init() tea.Cmd {
	return checkServer(m.serverURL)
}

func checkServer(serverURL string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 5 * time.Second}

		resp, err := client.Get(serverURL + "/health")
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable at %s - is it running?", serverURL)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("server returned %d on /health", resp.StatusCode)}
		}

		return serverOKMsg{}
	}
}

func createUser(serverURL, name, email string, budget float64) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]any{
			"name":          name,
			"email":         email,
			"monthlyBudget": budget,
		}

		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", serverURL+"/api/users", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("failed to reach server: %w", err)}
		}
		defer resp.Body.Close()

		var result map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			body, _ := io.ReadAll(resp.Body)
			return errMsg{fmt.Errorf("unreadable response (%d): %s", resp.StatusCode, string(body))}
		}

		if resp.StatusCode != http.StatusCreated {
			if apiErr, ok := result["error"].(string); ok && apiErr != "" {
				return errMsg{fmt.Errorf("%s", apiErr)}
			}
			return errMsg{fmt.Errorf("server returned %d", resp.StatusCode)}
		}

		data, _ := result["data"].(map[string]any)
		id, _ := data["id"].(string)
		storedEmail, _ := data["email"].(string)
		if id == "" {
			return errMsg{fmt.Errorf("server response carried no user id")}
		}

		return userCreatedMsg{id: id, email: storedEmail}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.step == stepEnteringName || m.step == stepEnteringEmail || m.step == stepEnteringBudget {
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepEnteringName:
				if m.currentInput != "" {
					m.name = strings.TrimSpace(m.currentInput)
					m.currentInput = ""
					m.step = stepEnteringEmail
				}

			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = strings.TrimSpace(m.currentInput)
					m.currentInput = ""
					m.step = stepEnteringBudget
				}

			case stepEnteringBudget:
				budget, err := strconv.ParseFloat(strings.TrimSpace(m.currentInput), 64)
				if err != nil || budget < 1 {
					m.message = errorStyle.Render("✗ Budget must be a number of at least 1")
					m.currentInput = ""
					return m, nil
				}
				m.budget = budget
				m.currentInput = ""
				m.message = "Creating user..."
				m.step = stepCreatingUser
				return m, createUser(m.serverURL, m.name, m.email, m.budget)

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case serverOKMsg:
		m.step = stepEnteringName
		m.message = successStyle.Render("✓ Server is up")

	case userCreatedMsg:
		m.userID = msg.id
		m.email = msg.email
		m.step = stepComplete
		m.message = successStyle.Render("✓ User created!")

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		// Server check failures are fatal; form errors restart the form
		if m.step == stepCheckingServer {
			m.quitting = true
			return m, tea.Quit
		}
		m.step = stepEnteringName
		m.currentInput = ""
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting && m.step != stepCheckingServer {
		if m.userID != "" {
			return fmt.Sprintf("User %s created with id %s\n", m.email, m.userID)
		}
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("💰 Expense Tracker Setup\n\n"))

	switch m.step {
	case stepCheckingServer:
		if m.message != "" {
			s.WriteString(m.message + "\n")
		} else {
			s.WriteString(fmt.Sprintf("Checking server at %s...\n", m.serverURL))
		}

	case stepEnteringName:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter the user's name:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringEmail:
		s.WriteString(promptStyle.Render("Enter the user's email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringBudget:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter the monthly budget:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepCreatingUser:
		s.WriteString(m.message + "\n")

	case stepComplete:
		s.WriteString(m.message + "\n\n")
		s.WriteString(detailStyle.Render(fmt.Sprintf("id:    %s\n", m.userID)))
		s.WriteString(detailStyle.Render(fmt.Sprintf("email: %s\n", m.email)))
		s.WriteString("\nPress Enter to exit\n")
	}

	return s.String()
}

func main() {
	serverURL := defaultServerURL
	if v := os.Getenv("SERVER_URL"); v != "" {
		serverURL = v
	}
	if len(os.Args) > 1 {
		serverURL = strings.TrimRight(os.Args[1], "/")
	}

	p := tea.NewProgram(initialModel(serverURL))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
