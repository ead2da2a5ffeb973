package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/model"
	"github.com/Leganyst/naconsulta/internal/pagination"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeUsers struct {
	deleted   []int64
	lastName  string
	lastInput dto.UserInsert
	caller    auth.Caller
	users     []dto.UserMin
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if id == 2 {
		return errs.Conflict("Integrity violation", "USER_IN_USE", errors.New("fk"))
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUsers) FindPage(_ context.Context, name string, page, size int) (pagination.Page[dto.UserMin], error) {
	f.lastName = name
	return pagination.Paginate(f.users, page, size), nil
}

func (f *fakeUsers) Register(_ context.Context, caller auth.Caller, in dto.UserInsert) (dto.UserForm, error) {
	f.caller, f.lastInput = caller, in
	return dto.UserForm{ID: 10, Email: in.Email, Roles: []dto.RoleDTO{{ID: 3, Authority: model.RolePatient}}, Phones: []dto.TelephoneDTO{}}, nil
}

func (f *fakeUsers) Update(_ context.Context, caller auth.Caller, id int64, in dto.UserUpdate) (dto.UserForm, error) {
	if err := auth.ValidateSelfOrAdmin(caller, id); err != nil {
		return dto.UserForm{}, err
	}
	return dto.UserForm{ID: id, FirstName: in.FirstName}, nil
}

func (f *fakeUsers) UserLogged(_ context.Context, caller auth.Caller) (dto.UserMax, error) {
	return dto.UserMax{ID: caller.UserID, Email: caller.Email}, nil
}

func (f *fakeUsers) FindByID(_ context.Context, caller auth.Caller, id int64) (dto.UserMax, error) {
	if err := auth.ValidateSelfOrAdmin(caller, id); err != nil {
		return dto.UserMax{}, err
	}
	if id == 404 {
		return dto.UserMax{}, errs.NotFound("User %d not found", id)
	}
	return dto.UserMax{ID: id}, nil
}

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, in dto.Login) (dto.Token, error) {
	if in.Password != "right" {
		return dto.Token{}, errs.Unauthorized("Bad credentials")
	}
	return dto.Token{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

type fakeAddresses struct{ query string }

func (f *fakeAddresses) FindByID(_ context.Context, id int64) (dto.AddressMin, error) {
	return dto.AddressMin{ID: id, Neighborhood: "Centro", Doctors: []dto.DoctorDTO{}}, nil
}

func (f *fakeAddresses) FindByNeighborhood(_ context.Context, name string) ([]dto.AddressMin, error) {
	f.query = name
	return []dto.AddressMin{}, nil
}

type fakeAppointments struct{}

func (fakeAppointments) FindByID(_ context.Context, _ auth.Caller, id int64) (dto.AppointmentDTO, error) {
	return dto.AppointmentDTO{ID: id}, nil
}

func (fakeAppointments) Update(_ context.Context, caller auth.Caller, id int64, in dto.AppointmentUpdate) (dto.AppointmentDTO, error) {
	if err := auth.RequireAnyRole(caller, model.RoleDoctor, model.RoleAdmin); err != nil {
		return dto.AppointmentDTO{}, err
	}
	return dto.AppointmentDTO{ID: id, Diagnosis: in.Diagnosis}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testAPI struct {
	router    *gin.Engine
	users     *fakeUsers
	addresses *fakeAddresses
	tokens    *auth.Tokens
}

func newTestAPI(t *testing.T, ping error) *testAPI {
	t.Helper()
	api := &testAPI{
		users:     &fakeUsers{users: []dto.UserMin{{ID: 1}, {ID: 2}, {ID: 3}}},
		addresses: &fakeAddresses{},
		tokens:    auth.NewTokens("test-secret-0123456789", time.Hour),
	}
	api.router = NewRouter(Deps{
		Users:        api.users,
		Auth:         fakeAuth{},
		Addresses:    api.addresses,
		Appointments: fakeAppointments{},
		Tokens:       api.tokens,
		DB:           fakePinger{err: ping},
		Log:          zerolog.Nop(),
		Env:          "test",
	})
	return api
}

func (api *testAPI) token(t *testing.T, id int64, roles ...string) string {
	t.Helper()
	raw, err := api.tokens.Issue(&auth.Identity{UserID: id, Username: "u@example.com", Authorities: roles})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return raw
}

func (api *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func TestRoutes_Status(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.token(t, 1, model.RoleAdmin)
	patient := api.token(t, 5, model.RolePatient)
	doctor := api.token(t, 6, model.RoleDoctor)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"login ok", http.MethodPost, "/auth/login", "", `{"email":"a@b.com","password":"right"}`, http.StatusOK},
		{"login bad", http.MethodPost, "/auth/login", "", `{"email":"a@b.com","password":"wrong"}`, http.StatusUnauthorized},
		{"login malformed", http.MethodPost, "/auth/login", "", `{"email":`, http.StatusBadRequest},
		{"register", http.MethodPost, "/users", "", `{"firstName":"Ana","email":"ana@example.com","password":"secret1"}`, http.StatusCreated},
		{"list as admin", http.MethodGet, "/users", admin, "", http.StatusOK},
		{"list as patient", http.MethodGet, "/users", patient, "", http.StatusForbidden},
		{"list anonymous", http.MethodGet, "/users", "", "", http.StatusUnauthorized},
		{"list bad page", http.MethodGet, "/users?page=x", admin, "", http.StatusBadRequest},
		{"me", http.MethodGet, "/users/me", patient, "", http.StatusOK},
		{"get self", http.MethodGet, "/users/5", patient, "", http.StatusOK},
		{"get other", http.MethodGet, "/users/1", patient, "", http.StatusForbidden},
		{"get missing", http.MethodGet, "/users/404", admin, "", http.StatusNotFound},
		{"get bad id", http.MethodGet, "/users/abc", admin, "", http.StatusBadRequest},
		{"update self", http.MethodPut, "/users/5", patient, `{"firstName":"B","email":"b@example.com"}`, http.StatusOK},
		{"delete as patient", http.MethodDelete, "/users/7", patient, "", http.StatusForbidden},
		{"delete as admin", http.MethodDelete, "/users/7", admin, "", http.StatusNoContent},
		{"delete in use", http.MethodDelete, "/users/2", admin, "", http.StatusConflict},
		{"address", http.MethodGet, "/addresses/3", patient, "", http.StatusOK},
		{"address search", http.MethodGet, "/addresses?neighborhood=centro", patient, "", http.StatusOK},
		{"appointment", http.MethodGet, "/appointments/9", patient, "", http.StatusOK},
		{"appointment update as patient", http.MethodPut, "/appointments/9", patient, `{"diagnosis":"x"}`, http.StatusForbidden},
		{"appointment update as doctor", http.MethodPut, "/appointments/9", doctor, `{"diagnosis":"x"}`, http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(tc.method, tc.path, tc.token, tc.body)
			if w.Code != tc.status {
				t.Fatalf("%s %s = %d, want %d (body %s)", tc.method, tc.path, w.Code, tc.status, w.Body.String())
			}
		})
	}
}

func TestListUsers_Paginates(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodGet, "/users?name=sil&page=2&size=2", api.token(t, 1, model.RoleAdmin), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var page pagination.Page[dto.UserMin]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if api.users.lastName != "sil" {
		t.Fatalf("name filter = %q, want sil", api.users.lastName)
	}
	if page.Total != 3 || page.Page != 2 || len(page.Items) != 1 || page.Items[0].ID != 3 || !page.HasPrev {
		t.Fatalf("page = %+v", page)
	}
}

func TestRegister_PassesCaller(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodPost, "/users", "", `{"firstName":"Ana","email":"ana@example.com","password":"secret1","roles":[1]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if api.users.caller.Authenticated() {
		t.Fatalf("anonymous request reached service as %+v", api.users.caller)
	}
	if len(api.users.lastInput.Roles) != 1 || api.users.lastInput.Roles[0] != 1 {
		t.Fatalf("roles = %v, want [1]", api.users.lastInput.Roles)
	}

	var form dto.UserForm
	if err := json.Unmarshal(w.Body.Bytes(), &form); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if form.ID != 10 || strings.Contains(w.Body.String(), "password") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestErrorBody(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodDelete, "/users/2", api.token(t, 1, model.RoleAdmin), "")

	var body errs.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "USER_IN_USE" || body.Message != "Integrity violation" || body.Status != http.StatusConflict {
		t.Fatalf("body = %+v", body)
	}
	if strings.Contains(w.Body.String(), "fk") {
		t.Fatalf("cause leaked: %s", w.Body.String())
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	api := newTestAPI(t, errors.New("connection refused"))

	w := api.do(http.MethodGet, "/health", "", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"unhealthy"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSearchAddresses_PassesQuery(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodGet, "/addresses?neighborhood=Centro", api.token(t, 5, model.RolePatient), "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("response = %d %s", w.Code, w.Body.String())
	}
	if api.addresses.query != "Centro" {
		t.Fatalf("query = %q", api.addresses.query)
	}
}
