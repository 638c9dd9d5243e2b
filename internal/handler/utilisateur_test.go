package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/handler"
	"github.com/apifilms/film-ratings/internal/model"
	"github.com/apifilms/film-ratings/internal/repository"
)

var fixedCreation = time.Date(2024, 2, 20, 12, 31, 10, 0, time.UTC)

// fakeUtilisateurStore implements handler.UtilisateurStore with canned
// rows and injectable failures, mimicking the repository contract: Create
// applies defaults and assigns the id and creation instant.
type fakeUtilisateurStore struct {
	createErr error
	updateErr error
	deleteErr error
	byID      map[int64]*model.Utilisateur
	all       []model.Utilisateur
}

func (f *fakeUtilisateurStore) Create(_ context.Context, u *model.Utilisateur) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ApplyDefaults()
	if err := u.Validate(); err != nil {
		return err
	}
	u.UtilisateurID = 42
	u.DateCreation = fixedCreation
	u.RowVersion = 0
	return nil
}

func (f *fakeUtilisateurStore) GetByID(_ context.Context, id int64) (*model.Utilisateur, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUtilisateurStore) GetByMail(_ context.Context, mail string) (*model.Utilisateur, error) {
	mail = model.NormalizeMail(mail)
	for _, u := range f.byID {
		if u.Mail == mail {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUtilisateurStore) ListAll(_ context.Context) ([]model.Utilisateur, error) {
	return f.all, nil
}

func (f *fakeUtilisateurStore) Update(_ context.Context, _ *model.Utilisateur) error {
	return f.updateErr
}

func (f *fakeUtilisateurStore) Delete(_ context.Context, _ int64) error {
	return f.deleteErr
}

// doRequest routes a JSON request through a fresh Echo context and returns
// the recorder after invoking fn.
func doRequest(t *testing.T, method, target, body string, fn echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) >= 2 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestCreateUtilisateurAppliesDefaults(t *testing.T) {
	c := qt.New(t)

	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{})
	rec := doRequest(t, http.MethodPost, "/v1/utilisateurs",
		`{"mail":" A@X.Com ","pwd":"p"}`, h.Create)

	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	var got model.Utilisateur
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &got), qt.IsNil)
	c.Assert(got.UtilisateurID, qt.Equals, int64(42))
	c.Assert(got.Mail, qt.Equals, "a@x.com")
	c.Assert(got.Pays, qt.Equals, "France")
	c.Assert(got.DateCreation.IsZero(), qt.IsFalse)
}

func TestCreateUtilisateurDuplicateMail(t *testing.T) {
	c := qt.New(t)

	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{createErr: repository.ErrDuplicateMail})
	rec := doRequest(t, http.MethodPost, "/v1/utilisateurs",
		`{"mail":"a@x.com","pwd":"p"}`, h.Create)

	c.Assert(rec.Code, qt.Equals, http.StatusConflict)
}

func TestCreateUtilisateurValidationFailure(t *testing.T) {
	c := qt.New(t)

	// Missing pwd trips field validation, which maps to 400.
	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{})
	rec := doRequest(t, http.MethodPost, "/v1/utilisateurs",
		`{"mail":"a@x.com"}`, h.Create)

	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestCreateUtilisateurInvalidBody(t *testing.T) {
	c := qt.New(t)

	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{})
	rec := doRequest(t, http.MethodPost, "/v1/utilisateurs", `{"mail":`, h.Create)

	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestGetUtilisateurByID(t *testing.T) {
	c := qt.New(t)

	u := &model.Utilisateur{UtilisateurID: 7, Mail: "a@x.com", Pwd: "p", Pays: "France", DateCreation: fixedCreation}
	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{byID: map[int64]*model.Utilisateur{7: u}})

	rec := doRequest(t, http.MethodGet, "/v1/utilisateurs/7", "", h.GetByID, "id", "7")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = doRequest(t, http.MethodGet, "/v1/utilisateurs/8", "", h.GetByID, "id", "8")
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)

	rec = doRequest(t, http.MethodGet, "/v1/utilisateurs/abc", "", h.GetByID, "id", "abc")
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestGetUtilisateurByMail(t *testing.T) {
	c := qt.New(t)

	u := &model.Utilisateur{UtilisateurID: 7, Mail: "a@x.com", Pwd: "p"}
	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{byID: map[int64]*model.Utilisateur{7: u}})

	// Case variants hit the same row.
	rec := doRequest(t, http.MethodGet, "/v1/utilisateurs/by-email/A@X.COM", "", h.GetByMail, "email", "A@X.COM")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = doRequest(t, http.MethodGet, "/v1/utilisateurs/by-email/b@x.com", "", h.GetByMail, "email", "b@x.com")
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestListUtilisateurs(t *testing.T) {
	c := qt.New(t)

	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{
		all: []model.Utilisateur{{UtilisateurID: 1, Mail: "a@x.com"}, {UtilisateurID: 2, Mail: "b@x.com"}},
	})
	rec := doRequest(t, http.MethodGet, "/v1/utilisateurs", "", h.List)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var body struct {
		Items []model.Utilisateur `json:"items"`
	}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
	c.Assert(body.Items, qt.HasLen, 2)
}

func TestUpdateUtilisateur(t *testing.T) {
	c := qt.New(t)

	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{})
	rec := doRequest(t, http.MethodPut, "/v1/utilisateurs/7",
		`{"utilisateur_id":7,"mail":"a@x.com","pwd":"p"}`, h.Update, "id", "7")

	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
}

func TestUpdateUtilisateurIDMismatch(t *testing.T) {
	c := qt.New(t)

	h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{})
	rec := doRequest(t, http.MethodPut, "/v1/utilisateurs/7",
		`{"utilisateur_id":8,"mail":"a@x.com","pwd":"p"}`, h.Update, "id", "7")

	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestUpdateUtilisateurConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "concurrent writer", err: repository.ErrConcurrency, code: http.StatusConflict},
		{name: "row deleted meanwhile", err: repository.ErrNotFound, code: http.StatusNotFound},
		{name: "mail taken", err: repository.ErrDuplicateMail, code: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{updateErr: tt.err})
			rec := doRequest(t, http.MethodPut, "/v1/utilisateurs/7",
				`{"utilisateur_id":7,"mail":"a@x.com","pwd":"p"}`, h.Update, "id", "7")
			c.Assert(rec.Code, qt.Equals, tt.code)
		})
	}
}

func TestDeleteUtilisateur(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "ok", err: nil, code: http.StatusNoContent},
		{name: "missing", err: repository.ErrNotFound, code: http.StatusNotFound},
		{name: "still rated", err: repository.ErrRestrictDelete, code: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			h := handler.NewUtilisateurHandler(&fakeUtilisateurStore{deleteErr: tt.err})
			rec := doRequest(t, http.MethodDelete, "/v1/utilisateurs/7", "", h.Delete, "id", "7")
			c.Assert(rec.Code, qt.Equals, tt.code)
		})
	}
}
