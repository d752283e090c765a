package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/form"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/router"
)

const dateLayout = "2006-01-02"

func dateRule(field string) form.Rule {
	return form.Rule{Field: field, Message: "Use o formato AAAA-MM-DD", Fails: func(s *form.State) bool {
		v := strings.TrimSpace(s.Value(field))
		if v == "" {
			return false
		}
		_, err := time.Parse(dateLayout, v)
		return err != nil
	}}
}

func roleLabels() []string {
	return []string{models.RoleStudent.Label(), models.RoleProfessor.Label(), models.RoleStaff.Label()}
}

func loginForm(e *env, _ string) formDef {
	return formDef{
		submit: "Entrar",
		spec: form.Spec{
			ID:    "login",
			Title: "Entrar",
			Fields: []form.Field{
				{Name: "email", Label: "E-mail institucional", Kind: form.Text, Placeholder: "exemplo@uesc.br", Required: true},
				{Name: "password", Label: "Senha", Kind: form.Secret, Required: true},
				{Name: "remember", Label: "Lembrar de mim neste computador", Kind: form.Toggle},
			},
			Rules: []form.Rule{
				form.Required("email", "E-mail é obrigatório"),
				form.Required("password", "Senha é obrigatória"),
			},
			InvalidMessage: "E-mail e senha são obrigatórios",
			RedirectDelay:  500 * time.Millisecond,
			Failure: func(err error) string {
				switch {
				case errors.Is(err, backend.ErrInvalidCredentials):
					return "E-mail ou senha incorretos."
				case errors.Is(err, backend.ErrBlocked):
					return "Sua conta está bloqueada. Procure a administração."
				}
				return ""
			},
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				s, err := e.auth.Authenticate(ctx, snap.Value("email"), snap.Value("password"))
				if err != nil {
					return form.Receipt{}, err
				}
				dest := router.Dashboard
				if s.Admin {
					dest = router.AdminDashboard
				}
				return form.Receipt{
					Message:     "Bem-vindo, " + s.Name + "!",
					Destination: dest,
					Value:       s,
				}, nil
			},
		},
	}
}

func signupForm(e *env, _ string) formDef {
	return formDef{
		submit: "Criar conta",
		spec: form.Spec{
			ID:    "signup",
			Title: "Criar conta",
			Fields: []form.Field{
				{Name: "name", Label: "Nome completo", Kind: form.Text, Placeholder: "Seu nome completo", Required: true},
				{Name: "email", Label: "E-mail institucional", Kind: form.Text, Placeholder: "exemplo@uesc.br", Required: true},
				{Name: "role", Label: "Tipo de vínculo", Kind: form.Choice, Options: roleLabels(), Required: true},
				{Name: "password", Label: "Senha", Kind: form.Secret, Required: true},
				{Name: "confirmPassword", Label: "Confirmar senha", Kind: form.Secret, Required: true},
				{Name: "terms", Label: "Li e aceito os Termos de Uso", Kind: form.Toggle, Required: true},
			},
			Rules: []form.Rule{
				form.Required("name", "Nome completo é obrigatório"),
				form.Required("email", "E-mail institucional é obrigatório"),
				form.Required("role", "Selecione o tipo de vínculo"),
				form.Required("password", "Senha é obrigatória"),
				form.SameAs("confirmPassword", "password", "As senhas não coincidem"),
				form.RequiredFlag("terms", "Você deve aceitar os termos de uso"),
			},
			Destination:   router.Onboarding,
			RedirectDelay: 500 * time.Millisecond,
			Failure: func(err error) string {
				if errors.Is(err, backend.ErrConflict) {
					return "Já existe uma conta com este e-mail."
				}
				return ""
			},
			Success: func(form.Receipt) string { return "Conta criada com sucesso!" },
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				role, _ := models.ParseRole(snap.Value("role"))
				s, err := e.auth.SignUp(ctx, models.SignupRequest{
					Name:     snap.Value("name"),
					Email:    snap.Value("email"),
					Role:     role,
					Password: snap.Value("password"),
				})
				if err != nil {
					return form.Receipt{}, err
				}
				return form.Receipt{Value: s}, nil
			},
		},
	}
}

func forgotPasswordForm(e *env, _ string) formDef {
	return formDef{
		submit: "Enviar instruções",
		spec: form.Spec{
			ID:    "forgot-password",
			Title: "Recuperar senha",
			Fields: []form.Field{
				{Name: "email", Label: "E-mail institucional", Kind: form.Text, Placeholder: "exemplo@uesc.br", Required: true},
			},
			Rules:       []form.Rule{form.Required("email", "E-mail é obrigatório")},
			Destination: router.Login,
			Success: func(form.Receipt) string {
				return "Se o e-mail estiver cadastrado, você receberá as instruções de recuperação."
			},
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				return form.Receipt{}, e.auth.RequestPasswordReset(ctx, snap.Value("email"))
			},
		},
	}
}

func registration(kind models.ObjectKind, owner string, snap form.Snapshot) models.Registration {
	return models.Registration{
		Kind:            kind,
		OwnerID:         owner,
		Name:            snap.Value("name"),
		Category:        snap.Value("category"),
		Location:        snap.Value("location"),
		LocationDetail:  snap.Value("locationDetail"),
		Date:            snap.Value("date"),
		Time:            snap.Value("time"),
		Description:     snap.Value("description"),
		CurrentLocation: snap.Value("currentLocation"),
		AllowMessages:   snap.Flag("allowMessages"),
		EnableAlert:     snap.Flag("enableAlert"),
		VisitedPlaces:   snap.Set("visitedPlaces"),
	}
}

func foundFields() []form.Field {
	return []form.Field{
		{Name: "image", Label: "Foto do objeto", Kind: form.Images, Required: true},
		{Name: "category", Label: "Categoria", Kind: form.Choice, Options: models.Categories, Required: true},
		{Name: "name", Label: "Nome do objeto", Kind: form.Text, Placeholder: "Ex: Carteira de couro marrom", Required: true},
		{Name: "location", Label: "Local onde foi encontrado", Kind: form.Choice, Options: models.Locations, Required: true},
		{Name: "locationDetail", Label: "Detalhe do local (opcional)", Kind: form.Text, Placeholder: "Ex: Sala 203, corredor esquerdo"},
		{Name: "date", Label: "Data em que foi encontrado", Kind: form.Text, Placeholder: "AAAA-MM-DD", Required: true},
		{Name: "time", Label: "Horário aproximado", Kind: form.Text, Placeholder: "HH:MM"},
		{Name: "description", Label: "Descrição detalhada", Kind: form.Text, Placeholder: "Descreva características visuais, marcas, adesivos, chaveiros, etc."},
		{Name: "currentLocation", Label: "Onde o objeto está agora", Kind: form.Choice, Options: models.CurrentLocations, Required: true},
		{Name: "allowMessages", Label: "Permitir que o dono entre em contato por mensagem", Kind: form.Toggle},
	}
}

func lostFields() []form.Field {
	return []form.Field{
		{Name: "category", Label: "Categoria", Kind: form.Choice, Options: models.Categories, Required: true},
		{Name: "name", Label: "Nome do objeto", Kind: form.Text, Placeholder: "Ex: Caderno azul com capa rígida", Required: true},
		{Name: "location", Label: "Local provável", Kind: form.Choice, Options: models.Locations, Required: true},
		{Name: "locationDetail", Label: "Outros detalhes", Kind: form.Text},
		{Name: "date", Label: "Data aproximada", Kind: form.Text, Placeholder: "AAAA-MM-DD", Required: true},
		{Name: "time", Label: "Horário aproximado", Kind: form.Text, Placeholder: "HH:MM"},
		{Name: "visitedPlaces", Label: "Locais por onde passou", Kind: form.MultiChoice, Options: models.VisitedPlaces},
		{Name: "description", Label: "Descrição detalhada", Kind: form.Text, Placeholder: "Cores, marcas, detalhes..."},
		{Name: "image", Label: "Fotos (opcional)", Kind: form.Images},
		{Name: "enableAlert", Label: "Receber alertas de objetos semelhantes", Kind: form.Toggle},
	}
}

func foundRules() []form.Rule {
	return []form.Rule{
		form.RequiredImage("image", "Foto do objeto é obrigatória"),
		form.Required("category", "Categoria é obrigatória"),
		form.Required("name", "Nome do objeto é obrigatório"),
		form.Required("location", "Local é obrigatório"),
		form.Required("date", "Data é obrigatória"),
		dateRule("date"),
		form.Required("currentLocation", "Informe onde o objeto está agora"),
	}
}

func lostRules() []form.Rule {
	return []form.Rule{
		form.Required("category", "Categoria é obrigatória"),
		form.Required("name", "Nome do objeto é obrigatório"),
		form.Required("location", "Local provável é obrigatório"),
		form.Required("date", "Data é obrigatória"),
		dateRule("date"),
	}
}

func todayPrefill(e *env, flags map[string]bool) func(context.Context, string) (form.Prefill, error) {
	return func(context.Context, string) (form.Prefill, error) {
		return form.Prefill{
			Values: map[string]string{"date": e.now().Format(dateLayout)},
			Flags:  flags,
		}, nil
	}
}

func registerFoundForm(e *env, _ string) formDef {
	return formDef{
		submit:  "Publicar objeto encontrado",
		prefill: todayPrefill(e, map[string]bool{"allowMessages": true}),
		spec: form.Spec{
			ID:            "register-found",
			Title:         "Registrar objeto encontrado",
			Fields:        foundFields(),
			Rules:         foundRules(),
			MaxImages:     form.MaxImages,
			Destination:   router.MyObjects,
			RedirectDelay: e.cfg.Timing.RedirectDelay,
			Success: func(r form.Receipt) string {
				return "Objeto encontrado registrado com sucesso. Nº de protocolo: " + string(r.Protocol)
			},
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				p, err := e.store.SubmitObjectRegistration(ctx, registration(models.KindFound, e.userID(), snap), snap.Images)
				if err != nil {
					return form.Receipt{}, err
				}
				return form.Receipt{Protocol: p}, nil
			},
		},
	}
}

func registerLostForm(e *env, _ string) formDef {
	return formDef{
		submit:  "Registrar objeto perdido",
		prefill: todayPrefill(e, map[string]bool{"enableAlert": true}),
		spec: form.Spec{
			ID:            "register-lost",
			Title:         "Registrar objeto perdido",
			Fields:        lostFields(),
			Rules:         lostRules(),
			MaxImages:     form.MaxImages,
			Destination:   router.MyObjects,
			RedirectDelay: e.cfg.Timing.RedirectDelay,
			Success: func(r form.Receipt) string {
				return "Objeto perdido registrado com sucesso! Nº de protocolo: " + string(r.Protocol)
			},
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				p, err := e.store.SubmitObjectRegistration(ctx, registration(models.KindLost, e.userID(), snap), snap.Images)
				if err != nil {
					return form.Receipt{}, err
				}
				return form.Receipt{Protocol: p}, nil
			},
		},
	}
}

var errReturnedObject = errors.New("returned objects cannot be edited")

// editObjectForm edits the object whose id is the history token. The field
// set follows the object's kind, which is only known once it is loaded.
func editObjectForm(e *env, token string) formDef {
	var kind models.ObjectKind
	fields := foundFields()
	// The images field stays optional when editing.
	fields[0].Required = false
	fields = append(fields,
		form.Field{Name: "visitedPlaces", Label: "Locais por onde passou", Kind: form.MultiChoice, Options: models.VisitedPlaces},
		form.Field{Name: "enableAlert", Label: "Receber alertas de objetos semelhantes", Kind: form.Toggle},
	)

	return formDef{
		submit: "Salvar alterações",
		prefill: func(ctx context.Context, id string) (form.Prefill, error) {
			o, err := e.store.GetObject(ctx, id)
			if err != nil {
				return form.Prefill{}, err
			}
			if o.Status == models.StatusReturned {
				return form.Prefill{}, fmt.Errorf("object %s: %w", id, errReturnedObject)
			}
			kind = o.Kind
			return form.Prefill{
				Values: map[string]string{
					"name":            o.Name,
					"category":        o.Category,
					"location":        o.Location,
					"locationDetail":  o.LocationDetail,
					"date":            o.Date,
					"time":            o.Time,
					"description":     o.Description,
					"currentLocation": o.CurrentLocation,
				},
				Sets:   map[string][]string{"visitedPlaces": o.VisitedPlaces},
				Flags:  map[string]bool{"allowMessages": o.AllowMessages, "enableAlert": o.EnableAlert},
				Images: o.Images,
			}, nil
		},
		spec: form.Spec{
			ID:     "edit-object",
			Title:  "Editar objeto",
			Fields: fields,
			Rules: []form.Rule{
				form.Required("category", "Categoria é obrigatória"),
				form.Required("name", "Nome do objeto é obrigatório"),
				form.Required("location", "Local é obrigatório"),
				form.Required("date", "Data é obrigatória"),
				dateRule("date"),
			},
			MaxImages:     form.MaxImages,
			Destination:   router.MyObjects,
			RedirectDelay: e.cfg.Timing.RedirectDelay,
			Success:       func(form.Receipt) string { return "Alterações salvas com sucesso!" },
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				reg := registration(kind, "", snap)
				if err := e.store.UpdateObject(ctx, token, reg, snap.Images); err != nil {
					return form.Receipt{}, err
				}
				return form.Receipt{}, nil
			},
		},
	}
}

func profileForm(e *env, _ string) formDef {
	return formDef{
		submit: "Salvar",
		prefill: func(ctx context.Context, _ string) (form.Prefill, error) {
			u, err := e.store.UserByID(ctx, e.userID())
			if err != nil {
				return form.Prefill{}, err
			}
			return form.Prefill{
				Values: map[string]string{"name": u.Name, "email": u.Email, "role": u.Role.Label()},
				Flags:  map[string]bool{"emailMatches": true, "emailMessages": true},
			}, nil
		},
		spec: form.Spec{
			ID:    "profile",
			Title: "Perfil e Configurações",
			Fields: []form.Field{
				{Name: "name", Label: "Nome completo", Kind: form.Text, Required: true},
				{Name: "email", Label: "E-mail institucional", Kind: form.Text},
				{Name: "role", Label: "Tipo de vínculo", Kind: form.Choice, Options: roleLabels()},
				{Name: "emailMatches", Label: "Receber e-mail quando houver correspondência", Kind: form.Toggle},
				{Name: "emailMessages", Label: "Receber e-mail de novas mensagens", Kind: form.Toggle},
			},
			Rules:   []form.Rule{form.Required("name", "Nome completo é obrigatório")},
			Success: func(form.Receipt) string { return "Configurações salvas com sucesso!" },
			Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
				return form.Receipt{}, nil
			},
		},
	}
}

// reportForm is embedded in the object detail screen.
func reportForm(e *env, objectID string) form.Spec {
	return form.Spec{
		ID:    "report",
		Title: "Denunciar este registro",
		Fields: []form.Field{
			{Name: "reason", Label: "Motivo da denúncia", Kind: form.Text, Placeholder: "Descreva o problema...", Required: true},
		},
		Rules:   []form.Rule{form.Required("reason", "Descreva o motivo da denúncia")},
		Success: func(form.Receipt) string { return "Denúncia enviada com sucesso. Nossa equipe irá revisar o registro." },
		Submit: func(ctx context.Context, snap form.Snapshot) (form.Receipt, error) {
			ack, err := e.store.SubmitReport(ctx, objectID, e.userID(), snap.Value("reason"))
			if err != nil {
				return form.Receipt{}, err
			}
			return form.Receipt{Value: ack}, nil
		},
	}
}
