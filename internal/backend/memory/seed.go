package memory

import (
	"time"

	"github.com/leeozaka/achados/internal/models"
)

// DemoPassword logs into every seeded account.
const DemoPassword = "uesc1234"

// Seeded accounts.
const (
	DemoUserID  = "u1"
	DemoAdminID = "admin"
)

func day(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *Store) seed() error {
	hash := ""
	if s.opts.HashPassword != nil {
		h, err := s.opts.HashPassword(DemoPassword)
		if err != nil {
			return err
		}
		hash = h
	}

	created := day("2025-09-01", "08:00")
	s.users = []*models.User{
		{ID: DemoUserID, Name: "João Silva", Email: "joao.silva@uesc.br", Role: models.RoleStudent},
		{ID: "u2", Name: "Maria Santos", Email: "maria.santos@uesc.br", Role: models.RoleProfessor},
		{ID: "u3", Name: "Pedro Oliveira", Email: "pedro.oliveira@uesc.br", Role: models.RoleStudent},
		{ID: "u4", Name: "Ana Costa", Email: "ana.costa@uesc.br", Role: models.RoleStaff},
		{ID: "u5", Name: "Carlos Ferreira", Email: "carlos.ferreira@uesc.br", Role: models.RoleStudent, Blocked: true},
		{ID: "u6", Name: "Juliana Lima", Email: "juliana.lima@uesc.br", Role: models.RoleStudent},
		{ID: DemoAdminID, Name: "Administração", Email: "admin@uesc.br", Role: models.RoleStaff, Admin: true},
	}
	for _, u := range s.users {
		u.PasswordHash = hash
		u.CreatedAt = created
	}

	summary := func(id string, protocol int64, kind models.ObjectKind, name, category, location, date string, status models.ObjectStatus, owner string) models.ObjectSummary {
		return models.ObjectSummary{
			ID: id, Protocol: models.FormatProtocol(protocol), Kind: kind, Name: name,
			Category: category, Location: location, Date: date, Status: status, OwnerID: owner,
		}
	}

	s.objects = []*models.Object{
		{
			ObjectSummary:   summary("1", 12345, models.KindFound, "Carteira de couro preta", "Acessórios", "Biblioteca Central", "2025-11-30", models.StatusOpen, DemoUserID),
			LocationDetail:  "Próximo ao balcão de empréstimos, segundo andar",
			Time:            "14:30",
			CurrentLocation: "Entregue na segurança",
			Description:     "Carteira de couro sintético na cor preta. Possui compartimento para moedas com zíper dourado. Tem um pequeno arranhão no canto inferior direito.",
			AllowMessages:   true,
			Timeline: []models.TimelineEvent{
				{Event: "Registrado como objeto encontrado", At: day("2025-11-30", "14:35")},
				{Event: "Correspondência sugerida para 2 usuários", At: day("2025-11-30", "14:36")},
				{Event: "Usuário Maria Silva iniciou contato", At: day("2025-11-30", "15:20")},
			},
			CreatedAt: day("2025-11-30", "14:35"),
		},
		{
			ObjectSummary:   summary("2", 12344, models.KindFound, "Mochila azul marinho", "Acessórios", "Pavilhão Pedro Calmon", "2025-11-29", models.StatusMatched, "u4"),
			CurrentLocation: "Entregue na secretaria do departamento",
			AllowMessages:   true,
			CreatedAt:       day("2025-11-29", "09:10"),
		},
		{
			ObjectSummary:   summary("9", 12339, models.KindLost, "Chave de carro Toyota", "Outros", "Estacionamento", "2025-11-29", models.StatusOpen, DemoUserID),
			Description:     "Chaveiro com o logo da Toyota e uma tag azul.",
			EnableAlert:     true,
			VisitedPlaces:   []string{"Estacionamento", "Biblioteca Central"},
			CreatedAt:       day("2025-11-29", "18:00"),
		},
		{
			ObjectSummary: summary("3", 12343, models.KindFound, "Caderno de Cálculo", "Materiais acadêmicos", "CEU", "2025-11-28", models.StatusInProgress, "u2"),
			CreatedAt:     day("2025-11-28", "11:00"),
		},
		{
			ObjectSummary: summary("4", 12342, models.KindLost, "Fone de ouvido Bluetooth", "Eletrônicos", "Cantina", "2025-11-27", models.StatusOpen, DemoUserID),
			Description:   "Fone over-ear preto, com estojo.",
			EnableAlert:   true,
			VisitedPlaces: []string{"Cantina", "Pavilhão Pedro Calmon"},
			CreatedAt:     day("2025-11-27", "13:00"),
		},
		{
			ObjectSummary:   summary("8", 12338, models.KindFound, "Fone de ouvido preto", "Eletrônicos", "Pavilhão Adonias Filho", "2025-11-27", models.StatusOpen, "u3"),
			CurrentLocation: "Comigo",
			AllowMessages:   true,
			CreatedAt:       day("2025-11-27", "16:40"),
		},
		{
			ObjectSummary: summary("5", 12341, models.KindFound, "Carteirinha de estudante", "Documentos", "Reitoria", "2025-11-26", models.StatusReturned, "u4"),
			CreatedAt:     day("2025-11-26", "10:00"),
		},
		{
			ObjectSummary:   summary("6", 12340, models.KindFound, "Garrafa térmica vermelha", "Acessórios", "Biblioteca Central", "2025-11-25", models.StatusOpen, "u6"),
			CurrentLocation: "Entregue na segurança",
			CreatedAt:       day("2025-11-25", "15:00"),
		},
	}

	other := func(id, conv, name, text, date, clock string) models.Message {
		return models.Message{ID: id, ConversationID: conv, Sender: models.SenderOther, SenderName: name, Text: text, SentAt: day(date, clock)}
	}
	mine := func(id, conv, text, date, clock string) models.Message {
		return models.Message{ID: id, ConversationID: conv, SenderID: DemoUserID, Sender: models.SenderMe, SenderName: "João Silva", Text: text, SentAt: day(date, clock)}
	}
	s.conversations = []*conversation{
		{userID: DemoUserID, Conversation: models.Conversation{
			ID: "c1", ObjectID: "1", ObjectName: "Carteira", PeerName: "Maria Silva", Unread: 2,
			Messages: []models.Message{
				other("c1-1", "c1", "Maria Silva", "Olá! Vi que você encontrou uma carteira preta. Acredito que seja a minha!", "2025-11-30", "10:15"),
				mine("c1-2", "c1", "Olá, Maria! Para confirmar, pode me dizer o que tinha dentro?", "2025-11-30", "10:18"),
				other("c1-3", "c1", "Maria Silva", "Cartões e um comprovante. Zíper dourado.", "2025-11-30", "10:25"),
				mine("c1-4", "c1", "Perfeito! Está na segurança da biblioteca.", "2025-11-30", "10:28"),
			},
		}},
		{userID: DemoUserID, Conversation: models.Conversation{
			ID: "c2", ObjectID: "2", ObjectName: "Mochila", PeerName: "Carlos Pereira",
			Messages: []models.Message{
				other("c2-1", "c2", "Carlos Pereira", "Obrigado por avisar sobre a mochila!", "2025-11-29", "17:00"),
				mine("c2-2", "c2", "Disponha! Ela está na cantina do Adonias.", "2025-11-29", "17:05"),
			},
		}},
		{userID: DemoUserID, Conversation: models.Conversation{
			ID: "c3", ObjectID: "8", ObjectName: "Fone", PeerName: "Fernanda Rocha",
			Messages: []models.Message{
				other("c3-1", "c3", "Fernanda Rocha", "Encontrei um fone parecido com o seu no Adonias.", "2025-11-28", "09:40"),
			},
		}},
	}

	s.reports = []*models.Report{
		{
			ID: "r1", ObjectID: "1", ObjectName: "Carteira de couro preta",
			ReporterID: "u3", ReporterName: "Pedro Oliveira",
			Reason:    "Suspeito que este objeto já foi devolvido e o usuário não atualizou o status. Vi pessoalmente a pessoa retirando esta carteira na segurança há 3 dias, mas o registro continua ativo no sistema.",
			Status:    models.ReportPending,
			CreatedAt: day("2025-12-01", "09:00"),
		},
	}
	return nil
}
