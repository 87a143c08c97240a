package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/parkgate/internal/db"
	"github.com/diewo77/parkgate/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewApp(conn), conn
}

func createUserWithPassword(t *testing.T, conn *gorm.DB, email, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Email: email, Password: string(hash), Role: role}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func login(t *testing.T, app *App, email, password string) *http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200 got %d: %s", email, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func doJSON(t *testing.T, app *App, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestParkingScenario(t *testing.T) {
	app, conn := setupApp(t)

	createUserWithPassword(t, conn, "root@test", "rootpass", models.RoleSuperAdmin)
	u1 := createUserWithPassword(t, conn, "u1@test", "u1pass", models.RoleResourceAdmin)
	createUserWithPassword(t, conn, "u2@test", "u2pass", models.RoleResourceAdmin)

	rootSess := login(t, app, "root@test", "rootpass")
	u1Sess := login(t, app, "u1@test", "u1pass")
	u2Sess := login(t, app, "u2@test", "u2pass")

	// Super admin creates apartment A delegated to U1.
	w := doJSON(t, app, http.MethodPost, "/apartments",
		`{"name":"Apartment A","address":"1 Main St","admin_id":"`+u1.ID+`"}`, rootSess)
	if w.Code != http.StatusCreated {
		t.Fatalf("create apartment: expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var apt models.Apartment
	if err := json.Unmarshal(w.Body.Bytes(), &apt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apt.AdminID != u1.ID {
		t.Fatalf("admin_id = %s, want %s", apt.AdminID, u1.ID)
	}

	// U1 permits VEH-1 with a spot.
	w = doJSON(t, app, http.MethodPost, "/apartments/"+apt.ID+"/vehicles",
		`{"plate":"VEH-1","parking_spot":"A-15"}`, u1Sess)
	if w.Code != http.StatusCreated {
		t.Fatalf("add permit: expected 201 got %d: %s", w.Code, w.Body.String())
	}

	// U2 administers nothing here: forbidden.
	w = doJSON(t, app, http.MethodPost, "/apartments/"+apt.ID+"/vehicles",
		`{"plate":"VEH-2"}`, u2Sess)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign admin add: expected 403 got %d", w.Code)
	}

	// Duplicate active permit: conflict.
	w = doJSON(t, app, http.MethodPost, "/apartments/"+apt.ID+"/vehicles",
		`{"plate":"VEH-1"}`, u1Sess)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate add: expected 409 got %d: %s", w.Code, w.Body.String())
	}

	// U1 removes VEH-1.
	w = doJSON(t, app, http.MethodDelete, "/apartments/"+apt.ID+"/vehicles/VEH-1", "", u1Sess)
	if w.Code != http.StatusOK {
		t.Fatalf("remove permit: expected 200 got %d: %s", w.Code, w.Body.String())
	}

	// The check now reports a normal negative result.
	w = doJSON(t, app, http.MethodGet, "/apartments/"+apt.ID+"/vehicles/check/VEH-1", "", u1Sess)
	if w.Code != http.StatusOK {
		t.Fatalf("check: expected 200 got %d", w.Code)
	}
	var check struct {
		Permitted bool `json:"is_permitted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &check); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if check.Permitted {
		t.Fatal("VEH-1 should no longer be permitted")
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	app, _ := setupApp(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/apartments"},
		{http.MethodPost, "/apartments"},
		{http.MethodGet, "/apartments/x"},
		{http.MethodPost, "/apartments/x/vehicles"},
		{http.MethodDelete, "/apartments/x/vehicles/VEH-1"},
	} {
		w := doJSON(t, app, route.method, route.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", route.method, route.path, w.Code)
		}
	}

	// Health stays public.
	w := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200 got %d", w.Code)
	}
}

func TestMemberCanReadApartmentOnly(t *testing.T) {
	app, conn := setupApp(t)

	createUserWithPassword(t, conn, "root@test", "rootpass", models.RoleSuperAdmin)
	u1 := createUserWithPassword(t, conn, "u1@test", "u1pass", models.RoleResourceAdmin)
	createUserWithPassword(t, conn, "m@test", "mpass", models.RoleMember)

	rootSess := login(t, app, "root@test", "rootpass")
	memberSess := login(t, app, "m@test", "mpass")

	w := doJSON(t, app, http.MethodPost, "/apartments",
		`{"name":"Apartment A","address":"1 Main St","admin_id":"`+u1.ID+`"}`, rootSess)
	if w.Code != http.StatusCreated {
		t.Fatalf("create apartment: expected 201 got %d", w.Code)
	}
	var apt models.Apartment
	if err := json.Unmarshal(w.Body.Bytes(), &apt); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Apartment details are publicly visible to authenticated members.
	w = doJSON(t, app, http.MethodGet, "/apartments/"+apt.ID, "", memberSess)
	if w.Code != http.StatusOK {
		t.Fatalf("member get: expected 200 got %d", w.Code)
	}

	// The ledger is not.
	w = doJSON(t, app, http.MethodGet, "/apartments/"+apt.ID+"/vehicles", "", memberSess)
	if w.Code != http.StatusForbidden {
		t.Fatalf("member list permits: expected 403 got %d", w.Code)
	}

	// Neither is the registry listing.
	w = doJSON(t, app, http.MethodGet, "/apartments", "", memberSess)
	if w.Code != http.StatusForbidden {
		t.Fatalf("member list apartments: expected 403 got %d", w.Code)
	}
}

func TestSoftDeletedApartmentDisappears(t *testing.T) {
	app, conn := setupApp(t)

	createUserWithPassword(t, conn, "root@test", "rootpass", models.RoleSuperAdmin)
	u1 := createUserWithPassword(t, conn, "u1@test", "u1pass", models.RoleResourceAdmin)

	rootSess := login(t, app, "root@test", "rootpass")
	u1Sess := login(t, app, "u1@test", "u1pass")

	w := doJSON(t, app, http.MethodPost, "/apartments",
		`{"name":"Apartment A","address":"1 Main St","admin_id":"`+u1.ID+`"}`, rootSess)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", w.Code)
	}
	var apt models.Apartment
	if err := json.Unmarshal(w.Body.Bytes(), &apt); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, app, http.MethodDelete, "/apartments/"+apt.ID, "", rootSess)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", w.Code)
	}

	// Gone from lookups and ledger operations alike.
	w = doJSON(t, app, http.MethodGet, "/apartments/"+apt.ID, "", rootSess)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404 got %d", w.Code)
	}
	w = doJSON(t, app, http.MethodPost, "/apartments/"+apt.ID+"/vehicles", `{"plate":"VEH-1"}`, u1Sess)
	if w.Code != http.StatusNotFound {
		t.Fatalf("add on deleted: expected 404 got %d", w.Code)
	}
	w = doJSON(t, app, http.MethodDelete, "/apartments/"+apt.ID, "", rootSess)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404 got %d", w.Code)
	}
}
