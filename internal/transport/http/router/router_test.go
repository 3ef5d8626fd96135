package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/core/auth"
	"umkm-marketplace/internal/domain"
	"umkm-marketplace/internal/feature/produk"
	"umkm-marketplace/internal/feature/umkm"
	"umkm-marketplace/internal/feature/user"
	"umkm-marketplace/internal/service"
)

type fixture struct {
	db    *memDB
	jwt   *auth.JWTer
	api   *gin.Engine
	admin *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newMemDB()
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "umkm", TTL: time.Hour}
	users, umkms, products := memUsers{db}, memUMKMs{db}, memProducts{db}
	l := zap.NewNop()

	deps := func() Deps {
		return Deps{
			Log: l,
			Pipeline: &access.Pipeline{
				Resolver:   access.NewResolver(j, []string{"/api/v1/auth"}),
				Suspension: access.NewSuspensionGate(users),
			},
			Auth: service.NewAuthService(users, j),
			Modules: new(Registry).Register(
				user.New(service.NewUserService(users), l),
				umkm.New(service.NewUMKMService(umkms, nil, time.Minute), umkms, l),
				produk.New(service.NewProductService(products, umkms), umkms, products, l),
			),
		}
	}
	return &fixture{db: db, jwt: j, api: NewAPIEngine(deps()), admin: NewAdminEngine(deps())}
}

func (f *fixture) addUser(t *testing.T, role domain.Role, suspended bool) (int64, string) {
	t.Helper()
	f.db.mu.Lock()
	id := f.db.next()
	phone := "08" + itoa(id)
	f.db.users[id] = &domain.User{ID: id, Phone: phone, Role: role, Suspended: suspended}
	f.db.mu.Unlock()
	tok, err := f.jwt.Issue(domain.Principal{ID: id, Phone: phone, Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return id, "Bearer " + tok
}

func (f *fixture) addUMKM(owner int64, active bool) int64 {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.next()
	f.db.umkms[id] = &domain.UMKM{ID: id, UserID: owner, Nama: "Warung", Kategori: "F&B", Status: active}
	return id
}

func (f *fixture) addProduct(umkmID int64) int64 {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.next()
	f.db.products[id] = &domain.Product{ID: id, UMKMID: umkmID, Nama: "Kopi", Harga: 10000}
	return id
}

func call(h http.Handler, method, target, authz string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

func TestAuth_RegisterAndLoginWithoutHeader(t *testing.T) {
	f := newFixture(t)

	w := call(f.api, http.MethodPost, "/api/v1/auth", "", url.Values{"no_hp": {"0812"}, "password": {"rahasia"}, "role": {"USER"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	tok, _ := decode(t, w)["token"].(string)
	if tok == "" {
		t.Fatal("register returned no token")
	}
	if strings.Contains(w.Body.String(), "rahasia") {
		t.Fatal("password leaked in response")
	}

	w = call(f.api, http.MethodPost, "/api/v1/auth", "", url.Values{"no_hp": {"0812"}, "password": {"rahasia"}})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	if m := decode(t, w); m["token"] == "" || m["message"] != "Login successful" {
		t.Fatalf("login body = %v", m)
	}

	w = call(f.api, http.MethodPost, "/api/v1/auth", "", url.Values{"no_hp": {"0812"}, "password": {"salah!!"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", w.Code)
	}

	// a freshly issued token is accepted by the pipeline
	w = call(f.api, http.MethodGet, "/api/v1/user", "Bearer "+tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /user with new token: %d %s", w.Code, w.Body.String())
	}
}

func TestIdentity_Envelope(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name, authz string
		status      int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(f.api, http.MethodGet, "/api/v1/umkm", tc.authz, nil)
			if w.Code != tc.status {
				t.Fatalf("status = %d", w.Code)
			}
			if msg, _ := decode(t, w)["error"].(string); msg == "" {
				t.Fatalf("no error envelope: %s", w.Body.String())
			}
		})
	}
}

func TestSuspended_DeniedBeforePolicy(t *testing.T) {
	f := newFixture(t)
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		_, authz := f.addUser(t, role, true)
		w := call(f.api, http.MethodGet, "/api/v1/user", authz, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("%s suspended: %d", role, w.Code)
		}
		if msg := decode(t, w)["error"]; msg != "account is suspended" {
			t.Fatalf("%s suspended: %v", role, msg)
		}
	}
}

func TestUMKMDetail_InactiveStates(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerAuth := f.addUser(t, domain.RoleUser, false)
	_, strangerAuth := f.addUser(t, domain.RoleUser, false)
	_, adminAuth := f.addUser(t, domain.RoleAdmin, false)
	inactive := f.addUMKM(ownerID, false)
	active := f.addUMKM(ownerID, true)
	path := func(id int64) string { return "/api/v1/umkm/" + itoa(id) }

	cases := []struct {
		name, authz, target string
		status              int
	}{
		{"stranger inactive", strangerAuth, path(inactive), http.StatusForbidden},
		{"owner inactive", ownerAuth, path(inactive), http.StatusForbidden},
		{"admin inactive", adminAuth, path(inactive), http.StatusOK},
		{"stranger active", strangerAuth, path(active), http.StatusOK},
		{"unknown", strangerAuth, path(999), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := call(f.api, http.MethodGet, tc.target, tc.authz, nil); w.Code != tc.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.status, w.Body.String())
			}
		})
	}
}

func TestUMKMDetail_NonIntegerIDSkipsLookup(t *testing.T) {
	f := newFixture(t)
	_, authz := f.addUser(t, domain.RoleUser, false)
	before := f.db.lookups
	w := call(f.api, http.MethodGet, "/api/v1/umkm/abc", authz, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if f.db.lookups != before {
		t.Fatal("lookup ran for a non-integer id")
	}
}

func TestProdukList_OwnerMayReadInactiveStorefront(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerAuth := f.addUser(t, domain.RoleUser, false)
	_, strangerAuth := f.addUser(t, domain.RoleUser, false)
	shop := f.addUMKM(ownerID, false)
	f.addProduct(shop)

	w := call(f.api, http.MethodGet, "/api/v1/produk?umkm_id="+itoa(shop), ownerAuth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner: %d %s", w.Code, w.Body.String())
	}
	var ps []domain.Product
	_ = json.Unmarshal(w.Body.Bytes(), &ps)
	if len(ps) != 1 {
		t.Fatalf("products = %v", ps)
	}
	if w := call(f.api, http.MethodGet, "/api/v1/produk?umkm_id="+itoa(shop), strangerAuth, nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger: %d", w.Code)
	}
	if w := call(f.api, http.MethodGet, "/api/v1/produk", ownerAuth, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing umkm_id: %d", w.Code)
	}
}

func TestProdukWrite_Ownership(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerAuth := f.addUser(t, domain.RoleUser, false)
	_, strangerAuth := f.addUser(t, domain.RoleUser, false)
	shop := f.addUMKM(ownerID, true)
	pid := f.addProduct(shop)

	form := url.Values{"id_umkm": {itoa(shop)}, "nama_produk": {"Teh"}, "harga": {"5000"}}
	if w := call(f.api, http.MethodPost, "/api/v1/produk", strangerAuth, form); w.Code != http.StatusForbidden {
		t.Fatalf("stranger create: %d", w.Code)
	}
	if w := call(f.api, http.MethodPost, "/api/v1/produk", ownerAuth, form); w.Code != http.StatusCreated {
		t.Fatalf("owner create: %d %s", w.Code, w.Body.String())
	}

	upd := url.Values{"id": {itoa(pid)}, "harga": {"12000"}}
	if w := call(f.api, http.MethodPut, "/api/v1/produk", strangerAuth, upd); w.Code != http.StatusForbidden {
		t.Fatalf("stranger update: %d", w.Code)
	}
	w := call(f.api, http.MethodPut, "/api/v1/produk", ownerAuth, upd)
	if w.Code != http.StatusOK {
		t.Fatalf("owner update: %d %s", w.Code, w.Body.String())
	}
	if decode(t, w)["harga"] != float64(12000) {
		t.Fatalf("update body = %s", w.Body.String())
	}

	if w := call(f.api, http.MethodDelete, "/api/v1/produk?id="+itoa(pid), ownerAuth, nil); w.Code != http.StatusOK {
		t.Fatalf("owner delete: %d %s", w.Code, w.Body.String())
	}
	if w := call(f.api, http.MethodDelete, "/api/v1/produk?id="+itoa(pid), ownerAuth, nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete again: %d", w.Code)
	}
}

func TestProdukWrite_InactiveStorefrontBlocksOwner(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerAuth := f.addUser(t, domain.RoleUser, false)
	shop := f.addUMKM(ownerID, false)
	pid := f.addProduct(shop)

	form := url.Values{"id_umkm": {itoa(shop)}, "nama_produk": {"Teh"}}
	if w := call(f.api, http.MethodPost, "/api/v1/produk", ownerAuth, form); w.Code != http.StatusForbidden {
		t.Fatalf("create on inactive: %d", w.Code)
	}
	if w := call(f.api, http.MethodPut, "/api/v1/produk", ownerAuth, url.Values{"id": {itoa(pid)}, "harga": {"1"}}); w.Code != http.StatusForbidden {
		t.Fatalf("update on inactive: %d", w.Code)
	}
	if w := call(f.api, http.MethodPut, "/api/v1/produk/publish", ownerAuth, url.Values{"id": {itoa(pid)}, "is_publik": {"true"}}); w.Code != http.StatusOK {
		t.Fatalf("publish has no state gate: %d %s", w.Code, w.Body.String())
	}
}

func TestUMKMCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	uid, authz := f.addUser(t, domain.RoleUser, false)
	_, strangerAuth := f.addUser(t, domain.RoleUser, false)

	form := url.Values{
		"nama": {"Kopi Kita"}, "kategori": {"F&B"}, "deskripsi": {"kopi"},
		"alamat": {"Jl. Melati"}, "no_kontak": {"0812"}, "status_umkm": {"false"},
	}
	w := call(f.api, http.MethodPost, "/api/v1/umkm", authz, form)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	m := decode(t, w)
	if m["id_user"] != float64(uid) || m["status_umkm"] != true {
		t.Fatalf("created = %v", m)
	}
	id := int64(m["id"].(float64))

	form.Set("id", itoa(id))
	form.Set("nama", "Kopi Baru")
	if w := call(f.api, http.MethodPut, "/api/v1/umkm", strangerAuth, form); w.Code != http.StatusForbidden {
		t.Fatalf("stranger update: %d", w.Code)
	}
	w = call(f.api, http.MethodPut, "/api/v1/umkm", authz, form)
	if w.Code != http.StatusOK || decode(t, w)["nama"] != "Kopi Baru" {
		t.Fatalf("owner update: %d %s", w.Code, w.Body.String())
	}

	delete(form, "alamat")
	if w := call(f.api, http.MethodPost, "/api/v1/umkm", authz, form); w.Code != http.StatusBadRequest {
		t.Fatalf("missing alamat: %d", w.Code)
	}
}

func TestUser_SelfOrAdmin(t *testing.T) {
	f := newFixture(t)
	aID, aAuth := f.addUser(t, domain.RoleUser, false)
	bID, _ := f.addUser(t, domain.RoleUser, false)
	_, adminAuth := f.addUser(t, domain.RoleAdmin, false)

	if w := call(f.api, http.MethodPut, "/api/v1/user", aAuth, url.Values{"id": {itoa(bID)}, "password": {"newpass"}}); w.Code != http.StatusForbidden {
		t.Fatalf("update other: %d", w.Code)
	}
	if w := call(f.api, http.MethodPut, "/api/v1/user", aAuth, url.Values{"password": {"newpass"}}); w.Code != http.StatusOK {
		t.Fatalf("update self: %d %s", w.Code, w.Body.String())
	}
	if w := call(f.api, http.MethodPut, "/api/v1/user", aAuth, url.Values{"role": {"ADMIN"}}); w.Code != http.StatusForbidden {
		t.Fatalf("self promote: %d", w.Code)
	}
	if w := call(f.api, http.MethodDelete, "/api/v1/user?id="+itoa(bID), aAuth, nil); w.Code != http.StatusForbidden {
		t.Fatalf("delete other: %d", w.Code)
	}
	if w := call(f.api, http.MethodDelete, "/api/v1/user?id="+itoa(bID), adminAuth, nil); w.Code != http.StatusOK {
		t.Fatalf("admin delete: %d %s", w.Code, w.Body.String())
	}
	if w := call(f.api, http.MethodPost, "/api/v1/user", aAuth, url.Values{"no_hp": {"0899"}, "password": {"secret1"}}); w.Code != http.StatusForbidden {
		t.Fatalf("user creating user: %d", w.Code)
	}
	if w := call(f.api, http.MethodGet, "/api/v1/umkm/nonaktif/user/"+itoa(aID), adminAuth, nil); w.Code != http.StatusNotFound {
		t.Fatalf("no inactive storefronts: %d", w.Code)
	}
}

func TestAdmin_GroupGuardAndSuspension(t *testing.T) {
	f := newFixture(t)
	uid, userAuth := f.addUser(t, domain.RoleUser, false)
	_, adminAuth := f.addUser(t, domain.RoleAdmin, false)

	if w := call(f.admin, http.MethodGet, "/admin/v1/dashboard", userAuth, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user on admin: %d", w.Code)
	}
	if w := call(f.admin, http.MethodGet, "/admin/v1/dashboard", adminAuth, nil); w.Code != http.StatusOK {
		t.Fatalf("admin dashboard: %d", w.Code)
	}

	w := call(f.admin, http.MethodPut, "/admin/v1/user/suspend", adminAuth, url.Values{"id": {itoa(uid)}, "suspend": {"true"}})
	if w.Code != http.StatusOK {
		t.Fatalf("suspend: %d %s", w.Code, w.Body.String())
	}
	if w := call(f.api, http.MethodGet, "/api/v1/user", userAuth, nil); w.Code != http.StatusForbidden {
		t.Fatalf("suspended token still admitted: %d", w.Code)
	}
	w = call(f.admin, http.MethodPut, "/admin/v1/user/suspend", adminAuth, url.Values{"id": {itoa(uid)}, "suspend": {"maybe"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad suspend flag: %d", w.Code)
	}
}

func TestAdmin_InactiveStorefronts(t *testing.T) {
	f := newFixture(t)
	ownerID, _ := f.addUser(t, domain.RoleUser, false)
	_, adminAuth := f.addUser(t, domain.RoleAdmin, false)
	shop := f.addUMKM(ownerID, true)

	w := call(f.admin, http.MethodPut, "/admin/v1/umkm/status", adminAuth, url.Values{"id": {itoa(shop)}, "status": {"false"}})
	if w.Code != http.StatusOK || decode(t, w)["status_umkm"] != false {
		t.Fatalf("deactivate: %d %s", w.Code, w.Body.String())
	}

	w = call(f.admin, http.MethodGet, "/admin/v1/umkm/nonaktif/"+itoa(ownerID), adminAuth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list by owner: %d", w.Code)
	}

	if w := call(f.admin, http.MethodDelete, "/admin/v1/umkm/nonaktif/"+itoa(ownerID), adminAuth, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("delete without id: %d", w.Code)
	}
	target := "/admin/v1/umkm/nonaktif/" + itoa(ownerID) + "?id=" + itoa(shop)
	if w := call(f.admin, http.MethodDelete, target, adminAuth, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if w := call(f.admin, http.MethodDelete, target, adminAuth, nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete again: %d", w.Code)
	}
}

func TestHealthIsPublic(t *testing.T) {
	f := newFixture(t)
	if w := call(f.api, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if w := call(f.api, http.MethodGet, "/nope", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", w.Code)
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func callMultipart(h http.Handler, method, target, authz string, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", authz)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDelete_FormIDWinsOverQuery(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerAuth := f.addUser(t, domain.RoleUser, false)
	strangerID, _ := f.addUser(t, domain.RoleUser, false)
	own := f.addProduct(f.addUMKM(ownerID, true))
	other := f.addProduct(f.addUMKM(strangerID, true))

	w := callMultipart(f.api, http.MethodDelete, "/api/v1/produk?id="+itoa(other), ownerAuth,
		map[string]string{"id": itoa(own)})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if _, ok := f.db.products[own]; ok {
		t.Fatal("product named in the form body was not deleted")
	}
	if _, ok := f.db.products[other]; !ok {
		t.Fatal("product named in the query was deleted")
	}

	shop := f.addUMKM(ownerID, true)
	otherShop := f.addUMKM(strangerID, true)
	w = callMultipart(f.api, http.MethodDelete, "/api/v1/umkm?id="+itoa(otherShop), ownerAuth,
		map[string]string{"id": itoa(shop)})
	if w.Code != http.StatusOK {
		t.Fatalf("delete umkm: %d %s", w.Code, w.Body.String())
	}
	if _, ok := f.db.umkms[shop]; ok {
		t.Fatal("storefront named in the form body was not deleted")
	}
	if _, ok := f.db.umkms[otherShop]; !ok {
		t.Fatal("storefront named in the query was deleted")
	}
}
