package public

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthEngine(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", h.UserRegister)
	r.POST("/login", h.UserLogin)
	return r
}

func TestUserRegisterResponse(t *testing.T) {
	r := newAuthEngine(newTestHandler())

	w := serve(r, http.MethodPost, "/register", `{"name":"Ana","email":"Ana@Test.com","password":"p"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Message != "user registered" || resp.Token == "" {
		t.Fatalf("unexpected register response: %+v", resp)
	}
	if resp.User.ID == "" || resp.User.Email != "ana@test.com" {
		t.Fatalf("unexpected register user: %+v", resp.User)
	}
}

func TestUserLoginErrors(t *testing.T) {
	h := newTestHandler()
	r := newAuthEngine(h)
	serve(r, http.MethodPost, "/register", `{"name":"Ana","email":"ana@test.com","password":"p"}`)

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "missing password", body: `{"email":"ana@test.com"}`, want: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"bob@test.com","password":"p"}`, want: http.StatusUnauthorized},
		{name: "wrong password", body: `{"email":"ana@test.com","password":"x"}`, want: http.StatusUnauthorized},
		{name: "ok", body: `{"email":"ana@test.com","password":"p"}`, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/login", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status want %d got %d body=%s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}
