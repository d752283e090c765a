package ui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leeozaka/achados/internal/chat"
	"github.com/leeozaka/achados/internal/models"
)

const (
	focusSearch = iota
	focusList
	focusCompose
	focusAttachment
	focusCount
)

type messages struct {
	base
	seq        *chat.Sequencer
	search     textinput.Model
	compose    textinput.Model
	attachment textinput.Model
	focus      int
	cursor     cursor
	openToken  string
	ready      bool
}

func newMessages(e *env) *messages {
	s := &messages{}
	s.start(e)

	user := e.userID()
	s.seq = chat.NewSequencer(func(ctx context.Context, id, text string, att *models.Attachment) (models.Message, error) {
		return e.store.SendMessage(ctx, user, id, text, att)
	}, e.toasts).WithContext(s.ctx).ForUser(user)

	s.search = textinput.New()
	s.search.Placeholder = "Buscar conversas"
	s.search.Width = 30
	s.compose = textinput.New()
	s.compose.Placeholder = "Digite sua mensagem..."
	s.compose.CharLimit = 1000
	s.compose.Width = 50
	s.attachment = textinput.New()
	s.attachment.Placeholder = "Anexo: caminho do arquivo (opcional)"
	s.attachment.Width = 50
	s.setFocus(focusList)
	return s
}

func (s *messages) Enter(token string) tea.Cmd {
	s.openToken = token
	user := s.env.userID()
	return s.load("conversations", func(ctx context.Context) (any, error) {
		return s.env.store.FetchConversations(ctx, user)
	})
}

func (s *messages) setFocus(f int) {
	s.focus = (f + focusCount) % focusCount
	inputs := map[int]*textinput.Model{focusSearch: &s.search, focusCompose: &s.compose, focusAttachment: &s.attachment}
	for i, ti := range inputs {
		if i == s.focus {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

func (s *messages) visible() []models.Conversation {
	return s.seq.Filter(s.search.Value())
}

// attachmentFor stats the file at path so the message carries its size and type.
func attachmentFor(path string) (*models.Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("attachment %s: %w", path, err)
	}
	return &models.Attachment{
		Name:      filepath.Base(path),
		Path:      path,
		SizeBytes: info.Size(),
		MIME:      mime.TypeByExtension(filepath.Ext(path)),
	}, nil
}

func (s *messages) send() tea.Cmd {
	id := s.seq.OpenID()
	if id == "" {
		return nil
	}
	att, err := attachmentFor(s.attachment.Value())
	if err != nil {
		return s.failed(err, "Arquivo não encontrado.")
	}
	return s.seq.Send(id, s.compose.Value(), att)
}

func (s *messages) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		if m.err != nil {
			return s.failed(m.err, "Não foi possível carregar as mensagens.")
		}
		s.seq.Load(m.value.([]models.Conversation))
		s.ready = true
		if s.openToken != "" {
			if err := s.seq.Open(s.openToken); err == nil {
				s.setFocus(focusCompose)
			}
		}
		return nil
	}

	switch msg := msg.(type) {
	case chat.SentMsg:
		if msg.Message.ConversationID == s.seq.OpenID() {
			s.compose.SetValue("")
			s.attachment.SetValue("")
		}
		return nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s.seq.Update(msg)
}

func (s *messages) handleKey(k tea.KeyMsg) tea.Cmd {
	switch k.String() {
	case "tab":
		s.setFocus(s.focus + 1)
		return nil
	case "shift+tab":
		s.setFocus(s.focus - 1)
		return nil
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusSearch:
		if k.String() == "enter" {
			s.setFocus(focusList)
			return nil
		}
		s.search, cmd = s.search.Update(k)
		s.cursor.clamp(len(s.visible()))
		return cmd

	case focusList:
		convs := s.visible()
		if s.cursor.update(k, len(convs)) {
			return nil
		}
		if k.String() == "enter" && len(convs) > 0 {
			_ = s.seq.Open(convs[s.cursor.pos].ID)
			s.setFocus(focusCompose)
		}
		return nil

	case focusCompose, focusAttachment:
		if k.String() == "enter" {
			return s.send()
		}
		if s.focus == focusCompose {
			s.compose, cmd = s.compose.Update(k)
		} else {
			s.attachment, cmd = s.attachment.Update(k)
		}
		return cmd
	}
	return nil
}

func (s *messages) View(width int) string {
	if !s.ready {
		return dimmedStyle.Render("Carregando...")
	}
	var b strings.Builder
	b.WriteString(s.search.View() + "\n\n")

	convs := s.visible()
	if len(convs) == 0 {
		b.WriteString(dimmedStyle.Render("Nenhuma conversa.") + "\n")
	}
	for i, c := range convs {
		line := fmt.Sprintf("%s · %s", c.ObjectName, c.PeerName)
		if last, ok := c.LastMessage(); ok {
			line += dimmedStyle.Render("  " + truncate(last.Text, 40))
		}
		if c.Unread > 0 {
			line += " " + matchStyle.Render(fmt.Sprintf("%d", c.Unread))
		}
		switch {
		case c.ID == s.seq.OpenID():
			line = selectedStyle.Render("● ") + line
		case s.focus == focusList && i == s.cursor.pos:
			line = selectedStyle.Render("› ") + line
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	open, ok := s.seq.Conversation(s.seq.OpenID())
	if !ok {
		b.WriteString("\n" + dimmedStyle.Render("Selecione uma conversa para começar.") + "\n")
		return b.String()
	}

	b.WriteString("\n" + highlightStyle.Render(open.ObjectName+" · "+open.PeerName) + "\n\n")
	for _, m := range open.Messages {
		who := m.SenderName
		if m.Sender == models.SenderMe {
			who = "Você"
		}
		text := m.Text
		if m.Attachment != nil {
			text += dimmedStyle.Render(" [anexo: " + m.Attachment.Name + "]")
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", dimmedStyle.Render(m.SentAt.Format("15:04")), selectedStyle.Render(who), text))
	}
	b.WriteString("\n" + s.compose.View() + "\n")
	b.WriteString(s.attachment.View() + "\n")
	if s.seq.InFlight(open.ID) {
		b.WriteString(dimmedStyle.Render("Enviando...") + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (s *messages) Help() string {
	return shortcut("Tab", "alternar busca, lista e mensagem") + ", " + shortcut("Enter", "abrir ou enviar")
}

func (s *messages) Leave() {
	s.seq.Cancel()
	s.base.Leave()
}
