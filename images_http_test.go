package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/eringen/portfolio/mocks"
	"github.com/eringen/portfolio/models"
)

const testAdminPassword = "pw"

func newImageServer(t *testing.T, store Records) (*App, *httptest.Server) {
	t.Helper()
	a := New(SiteConfig{AdminPassword: testAdminPassword, SessionSecret: "0123456789abcdef"},
		ViewFuncs{}, WithStore(store), WithStaticDir(t.TempDir()))
	if err := a.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	srv := httptest.NewServer(a.Echo)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return a, srv
}

func adminHTTPClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	hc := &http.Client{Jar: jar}
	resp, err := hc.Post(srv.URL+"/api/admin/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"`+testAdminPassword+`"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	return hc
}

func uploadImage(t *testing.T, hc *http.Client, url, name string, data []byte) (*http.Response, []byte) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", name)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	resp, err := hc.Post(url+"/api/admin/images", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func doDelete(t *testing.T, hc *http.Client, url string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestImageRoutesRequireAdmin(t *testing.T) {
	_, srv := newImageServer(t, setupTestStore(t))

	resp, err := http.Get(srv.URL + "/api/admin/images")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("list status = %d, want 401", resp.StatusCode)
	}

	resp, _ = uploadImage(t, http.DefaultClient, srv.URL, "a.png", encodePNG(t, 10, 10).Bytes())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("upload status = %d, want 401", resp.StatusCode)
	}
	if code := doDelete(t, http.DefaultClient, srv.URL+"/api/admin/images/a.jpg"); code != http.StatusUnauthorized {
		t.Errorf("delete status = %d, want 401", code)
	}
}

func TestImageUploadListDelete(t *testing.T) {
	a, srv := newImageServer(t, setupTestStore(t))
	hc := adminHTTPClient(t, srv)

	resp, body := uploadImage(t, hc, srv.URL, "Holiday Photo.png", encodePNG(t, 40, 20).Bytes())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", resp.StatusCode, body)
	}
	var created imageResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Filename != "holiday-photo.jpg" || created.URL != "/public/uploads/holiday-photo.jpg" {
		t.Errorf("unexpected upload response: %+v", created)
	}
	if created.Width != 40 || created.Height != 20 {
		t.Errorf("size = %dx%d", created.Width, created.Height)
	}
	path := filepath.Join(a.uploadsDir(), created.Filename)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("uploaded file missing: %v", err)
	}

	// same name gets a counter
	_, body = uploadImage(t, hc, srv.URL, "Holiday Photo.png", encodePNG(t, 40, 20).Bytes())
	var second imageResponse
	json.Unmarshal(body, &second)
	if second.Filename != "holiday-photo-2.jpg" {
		t.Errorf("second filename = %q", second.Filename)
	}

	resp, err := hc.Get(srv.URL + "/api/admin/images")
	if err != nil {
		t.Fatal(err)
	}
	var listed []imageResponse
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed) != 2 {
		t.Fatalf("listed %d images, want 2", len(listed))
	}
	for _, img := range listed {
		if img.URL != "/public/uploads/"+img.Filename {
			t.Errorf("URL = %q for %q", img.URL, img.Filename)
		}
	}

	for i := 0; i < 2; i++ {
		if code := doDelete(t, hc, srv.URL+"/api/admin/images/"+created.Filename); code != http.StatusOK {
			t.Errorf("delete #%d status = %d, want 200", i+1, code)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still on disk: %v", err)
	}
}

func TestImageDeleteRejectsParentDir(t *testing.T) {
	a, srv := newImageServer(t, setupTestStore(t))
	hc := adminHTTPClient(t, srv)
	if err := os.MkdirAll(a.uploadsDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	if code := doDelete(t, hc, srv.URL+"/api/admin/images/.."); code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
	if _, err := os.Stat(a.uploadsDir()); err != nil {
		t.Errorf("uploads dir removed: %v", err)
	}
	if _, err := os.Stat(a.staticDir); err != nil {
		t.Errorf("static dir removed: %v", err)
	}
}

func TestValidUploadName(t *testing.T) {
	for name, want := range map[string]bool{
		"photo.jpg":    true,
		"photo-2.jpg":  true,
		"":             false,
		".":            false,
		"..":           false,
		"../x.jpg":     false,
		"a/b.jpg":      false,
		`a\b.jpg`:      false,
		"/etc/passwd":  false,
		"..hidden.jpg": true,
	} {
		if got := validUploadName(name); got != want {
			t.Errorf("validUploadName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestImageUploadRejectsHugeDimensions(t *testing.T) {
	// GIF header declaring a 65535x65535 canvas with no pixel data
	header := []byte("GIF89a\xff\xff\xff\xff\x00\x00\x00")
	if _, _, err := processImage(bytes.NewReader(header), "huge.gif"); !errors.Is(err, errImageTooLarge) {
		t.Fatalf("processImage error = %v, want errImageTooLarge", err)
	}

	_, srv := newImageServer(t, setupTestStore(t))
	hc := adminHTTPClient(t, srv)
	resp, body := uploadImage(t, hc, srv.URL, "huge.gif", header)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", resp.StatusCode, body)
	}
}

func TestImageUploadRemovesFileWhenSaveFails(t *testing.T) {
	hash, err := HashPassword(testAdminPassword)
	if err != nil {
		t.Fatal(err)
	}
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRecords(ctrl)
	m.EXPECT().CountAdmins(gomock.Any()).Return(1, nil)
	m.EXPECT().GetAdminByUsername(gomock.Any(), "admin").
		Return(models.AdminCredential{Username: "admin", PasswordHash: hash}, nil)
	m.EXPECT().ImageExists(gomock.Any(), "photo.jpg").Return(false, nil)
	m.EXPECT().SaveImage(gomock.Any(), gomock.Any()).Return(models.Image{}, errors.New("disk full"))
	m.EXPECT().Close().Return(nil)

	a, srv := newImageServer(t, m)
	hc := adminHTTPClient(t, srv)

	resp, body := uploadImage(t, hc, srv.URL, "photo.png", encodePNG(t, 20, 20).Bytes())
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if strings.Contains(string(body), "disk full") {
		t.Errorf("internal error leaked: %s", body)
	}
	if _, err := os.Stat(filepath.Join(a.uploadsDir(), "photo.jpg")); !os.IsNotExist(err) {
		t.Errorf("orphaned file left on disk: %v", err)
	}
}
