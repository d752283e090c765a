package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/backend/memory"
	"github.com/leeozaka/achados/internal/models"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	clock := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	s, err := Open(context.Background(), Options{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "achados.db"),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func register(t *testing.T, s *Store, reg models.Registration) models.Protocol {
	t.Helper()
	p, err := s.SubmitObjectRegistration(context.Background(), reg, nil)
	require.NoError(t, err)
	return p
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", pg.rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)"))

	lite := &Store{dialect: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mysql"})
	assert.Error(t, err)
}

func TestRegisterAndGetObject(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	images := []models.Image{
		{Name: "a.png", MIME: "image/png", DataURI: "data:image/png;base64,AA=="},
		{Name: "b.png", MIME: "image/png", DataURI: "data:image/png;base64,BB=="},
	}
	reg := models.Registration{
		Kind: models.KindFound, OwnerID: "u1", Name: "Fone azul", Category: "Eletrônicos",
		Location: "Cantina", Date: "2025-11-01", CurrentLocation: "Comigo", AllowMessages: true,
		VisitedPlaces: []string{"Cantina", "CEU"},
	}
	p, err := s.SubmitObjectRegistration(ctx, reg, images)
	require.NoError(t, err)
	assert.Equal(t, models.Protocol("#12346"), p)
	assert.Equal(t, models.Protocol("#12347"), register(t, s, reg))

	list, err := s.ListObjects(ctx, models.ObjectFilter{Query: "FONE"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.Protocol("#12347"), list[0].Protocol)

	obj, err := s.GetObject(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Comigo", obj.CurrentLocation)
	assert.True(t, obj.AllowMessages)
	assert.False(t, obj.EnableAlert)
	assert.Equal(t, []string{"Cantina", "CEU"}, obj.VisitedPlaces)
	require.Len(t, obj.Images, 2)
	assert.Equal(t, "a.png", obj.Images[0].Name)
	assert.Equal(t, "b.png", obj.Images[1].Name)
	require.Len(t, obj.Timeline, 1)
	assert.Equal(t, "Registrado como objeto encontrado", obj.Timeline[0].Event)

	_, err = s.GetObject(ctx, "missing")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestListObjectsFilters(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	register(t, s, models.Registration{Kind: models.KindFound, OwnerID: "u1", Name: "Carteira de couro preta", Category: "Acessórios", Location: "Biblioteca Central", Date: "2025-11-30"})
	register(t, s, models.Registration{Kind: models.KindLost, OwnerID: "u2", Name: "Fone de ouvido", Category: "Eletrônicos", Location: "Cantina", Date: "2025-11-27"})
	register(t, s, models.Registration{Kind: models.KindFound, OwnerID: "u2", Name: "Caderno de Cálculo", Category: "Materiais acadêmicos", Location: "CEU", Date: "2025-11-28"})

	tests := []struct {
		name   string
		filter models.ObjectFilter
		want   []string
	}{
		{"all newest first", models.ObjectFilter{}, []string{"Caderno de Cálculo", "Fone de ouvido", "Carteira de couro preta"}},
		{"kind", models.ObjectFilter{Kind: models.KindLost}, []string{"Fone de ouvido"}},
		{"categories", models.ObjectFilter{Categories: []string{"Acessórios", "Eletrônicos"}}, []string{"Fone de ouvido", "Carteira de couro preta"}},
		{"location", models.ObjectFilter{Location: "CEU"}, []string{"Caderno de Cálculo"}},
		{"dates", models.ObjectFilter{DateFrom: "2025-11-28", DateTo: "2025-11-30"}, []string{"Caderno de Cálculo", "Carteira de couro preta"}},
		{"status", models.ObjectFilter{Statuses: []models.ObjectStatus{models.StatusReturned}}, nil},
		{"owner", models.ObjectFilter{OwnerID: "u2"}, []string{"Caderno de Cálculo", "Fone de ouvido"}},
		{"limit", models.ObjectFilter{Limit: 1}, []string{"Caderno de Cálculo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListObjects(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, o := range got {
				names = append(names, o.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	matches, err := s.FetchMatches(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, matches)

	register(t, s, models.Registration{Kind: models.KindFound, OwnerID: "u3", Name: "Fone preto", Category: "Eletrônicos", Location: "Reitoria", Date: "2025-11-29"})
	matches, err = s.FetchMatches(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Fone preto", matches[0].Name)
}

func TestQueryMatchesMemoryBackend(t *testing.T) {
	ctx := context.Background()
	lite := openTest(t)
	mem, err := memory.New(memory.Options{Empty: true})
	require.NoError(t, err)

	names := []string{"Óculos escuros", "Caderno de cálculo", "Chave 50%_off", "Garrafa ÁGUA"}
	for _, n := range names {
		reg := models.Registration{Kind: models.KindFound, OwnerID: "u1", Name: n, Category: "Outros",
			Location: "Cantina", Date: "2025-11-01", CurrentLocation: "Comigo"}
		register(t, lite, reg)
		_, err := mem.SubmitObjectRegistration(ctx, reg, nil)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"óculos", []string{"Óculos escuros"}},
		{"  ÓCULOS ", []string{"Óculos escuros"}},
		{"CÁLCULO", []string{"Caderno de cálculo"}},
		{"água", []string{"Garrafa ÁGUA"}},
		{"50%_", []string{"Chave 50%_off"}},
		{"%", []string{"Chave 50%_off"}},
		{"_", []string{"Chave 50%_off"}},
		{"oculos", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := models.ObjectFilter{Query: tt.query}
			fromSQL, err := lite.ListObjects(ctx, f)
			require.NoError(t, err)
			fromMem, err := mem.ListObjects(ctx, f)
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.want, objectNames(fromSQL))
			assert.ElementsMatch(t, tt.want, objectNames(fromMem))
		})
	}

	list, err := lite.ListObjects(ctx, models.ObjectFilter{Query: "garrafa"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	edited := models.Registration{Kind: models.KindFound, Name: "Estojo ÍNDIGO", Category: "Outros",
		Location: "Cantina", Date: "2025-11-01", CurrentLocation: "Comigo"}
	require.NoError(t, lite.UpdateObject(ctx, list[0].ID, edited, nil))
	found, err := lite.ListObjects(ctx, models.ObjectFilter{Query: "índigo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Estojo ÍNDIGO"}, objectNames(found))
}

func objectNames(list []models.ObjectSummary) []string {
	var out []string
	for _, o := range list {
		out = append(out, o.Name)
	}
	return out
}

func TestUpdateReturnDelete(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	register(t, s, models.Registration{Kind: models.KindLost, OwnerID: "u1", Name: "Chave", Category: "Outros", Location: "CEU", Date: "2025-11-29"})
	list, _ := s.ListObjects(ctx, models.ObjectFilter{})
	id := list[0].ID

	err := s.UpdateObject(ctx, id, models.Registration{Name: "Chave Toyota", Category: "Outros", Location: "CEU", Date: "2025-11-29", EnableAlert: true},
		[]models.Image{{Name: "k.jpg", MIME: "image/jpeg", DataURI: "data:image/jpeg;base64,"}})
	require.NoError(t, err)
	require.NoError(t, s.MarkReturned(ctx, id))

	obj, err := s.GetObject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chave Toyota", obj.Name)
	assert.Equal(t, models.KindLost, obj.Kind)
	assert.True(t, obj.EnableAlert)
	assert.Equal(t, models.StatusReturned, obj.Status)
	assert.Len(t, obj.Images, 1)
	require.Len(t, obj.Timeline, 3)
	assert.Equal(t, "Objeto devolvido ao dono", obj.Timeline[2].Event)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalObjects: 1, Returned: 1}, st)

	require.NoError(t, s.DeleteObject(ctx, id))
	assert.ErrorIs(t, s.DeleteObject(ctx, id), backend.ErrNotFound)
	assert.ErrorIs(t, s.UpdateObject(ctx, id, models.Registration{}, nil), backend.ErrNotFound)
	assert.ErrorIs(t, s.MarkReturned(ctx, id), backend.ErrNotFound)
}

func TestUsers(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{Name: "João Silva", Email: " Joao.Silva@UESC.br ", Role: models.RoleStudent, PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "joao.silva@uesc.br", u.Email)

	_, err = s.CreateUser(ctx, models.User{Name: "Outro", Email: "joao.silva@uesc.br"})
	assert.ErrorIs(t, err, backend.ErrConflict)

	got, err := s.UserByEmail(ctx, "JOAO.SILVA@uesc.br")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)
	assert.Equal(t, models.RoleStudent, got.Role)

	require.NoError(t, s.SetBlocked(ctx, u.ID, true))
	got, _ = s.UserByID(ctx, u.ID)
	assert.True(t, got.Blocked)
	assert.ErrorIs(t, s.SetBlocked(ctx, "nope", true), backend.ErrNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = s.UserByEmail(ctx, "ninguem@uesc.br")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestConversations(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, models.User{Name: "Maria Silva", Email: "maria@uesc.br", Role: models.RoleProfessor})
	require.NoError(t, err)
	me, err := s.CreateUser(ctx, models.User{Name: "João Silva", Email: "joao@uesc.br", Role: models.RoleStudent})
	require.NoError(t, err)
	register(t, s, models.Registration{Kind: models.KindFound, OwnerID: owner.ID, Name: "Carteira", Category: "Acessórios", Location: "CEU", Date: "2025-11-30"})
	list, _ := s.ListObjects(ctx, models.ObjectFilter{})
	objID := list[0].ID

	c, err := s.StartConversation(ctx, me.ID, objID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", c.PeerName)
	again, err := s.StartConversation(ctx, me.ID, objID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	_, err = s.StartConversation(ctx, owner.ID, objID)
	assert.ErrorIs(t, err, backend.ErrConflict)

	_, err = s.SendMessage(ctx, me.ID, c.ID, "É minha!", nil)
	require.NoError(t, err)
	_, err = s.SendMessage(ctx, me.ID, c.ID, "(Arquivo enviado)", &models.Attachment{Name: "nota.pdf", Path: "/tmp/nota.pdf", SizeBytes: 10})
	require.NoError(t, err)
	_, err = s.SendMessage(ctx, owner.ID, c.ID, "não é sua", nil)
	assert.ErrorIs(t, err, backend.ErrNotFound)

	convs, err := s.FetchConversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	msgs := convs[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "É minha!", msgs[0].Text)
	assert.Equal(t, models.SenderMe, msgs[0].Sender)
	assert.Equal(t, "João Silva", msgs[0].SenderName)
	assert.Nil(t, msgs[0].Attachment)
	require.NotNil(t, msgs[1].Attachment)
	assert.Equal(t, int64(10), msgs[1].Attachment.SizeBytes)
}

func TestReports(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	owner, _ := s.CreateUser(ctx, models.User{Name: "Carlos", Email: "carlos@uesc.br", Role: models.RoleStudent})
	register(t, s, models.Registration{Kind: models.KindFound, OwnerID: owner.ID, Name: "Garrafa", Category: "Acessórios", Location: "CEU", Date: "2025-11-25"})
	register(t, s, models.Registration{Kind: models.KindFound, OwnerID: owner.ID, Name: "Mochila", Category: "Acessórios", Location: "CEU", Date: "2025-11-26"})
	list, _ := s.ListObjects(ctx, models.ObjectFilter{})

	first, err := s.SubmitReport(ctx, list[0].ID, "u9", " spam ")
	require.NoError(t, err)
	second, err := s.SubmitReport(ctx, list[1].ID, "u9", "duplicado")
	require.NoError(t, err)

	reports, err := s.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ReportID, reports[0].ID)
	assert.Equal(t, "spam", reports[1].Reason)

	require.NoError(t, s.ResolveReport(ctx, first.ReportID, models.ActionKeep))
	r, _ := s.GetReport(ctx, first.ReportID)
	assert.Equal(t, models.ReportKept, r.Status)

	require.NoError(t, s.ResolveReport(ctx, second.ReportID, models.ActionBlock))
	r, _ = s.GetReport(ctx, second.ReportID)
	assert.Equal(t, models.ReportBlocked, r.Status)
	_, err = s.GetObject(ctx, list[1].ID)
	assert.ErrorIs(t, err, backend.ErrNotFound)
	u, _ := s.UserByID(ctx, owner.ID)
	assert.True(t, u.Blocked)

	st, _ := s.Stats(ctx)
	assert.Equal(t, 0, st.PendingReports)
	assert.Equal(t, 1, st.TotalObjects)

	assert.ErrorIs(t, s.ResolveReport(ctx, "missing", models.ActionRemove), backend.ErrNotFound)
	_, err = s.GetReport(ctx, "missing")
	assert.ErrorIs(t, err, backend.ErrNotFound)
	_, err = s.SubmitReport(ctx, "missing", "u9", "x")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}
