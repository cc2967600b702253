package handlers

import (
	"bytes"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/inspection-report/internal/imageopt"
	"github.com/kozaktomas/inspection-report/internal/photoset"
)

// multipartUpload builds a multipart request with the given files
func multipartUpload(t *testing.T, url string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestPhotosHandler(photos *memPhotoStore) *PhotosHandler {
	return NewPhotosHandler(testConfig(), photos, imageopt.NewOptimizer(photos, time.Second))
}

func TestPhotosHandler_Upload(t *testing.T) {
	store := setupStore(t)
	f := addTestShip(store)
	f.Before = photoset.Ptr("https://x/existing.jpg")
	store.AddFinding(f)
	photos := newMemPhotoStore()
	handler := newTestPhotosHandler(photos)

	req := multipartUpload(t, "/api/v1/findings/f1/photos/before", map[string][]byte{
		"deck.png": testPNG(t, 20, 10),
	})
	req = requestWithChiParams(req, map[string]string{"id": "f1", "slot": "before"})
	recorder := httptest.NewRecorder()
	handler.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var resp struct {
		Uploaded []string        `json:"uploaded"`
		Finding  findingResponse `json:"finding"`
	}
	parseJSONResponse(t, recorder, &resp)
	if len(resp.Uploaded) != 1 || !strings.HasPrefix(resp.Uploaded[0], "mem://") || !strings.HasSuffix(resp.Uploaded[0], ".png") {
		t.Fatalf("unexpected uploaded uris %v", resp.Uploaded)
	}
	if len(resp.Finding.BeforePhotos) != 2 || resp.Finding.BeforePhotos[0] != "https://x/existing.jpg" {
		t.Errorf("upload should append to the set, got %v", resp.Finding.BeforePhotos)
	}

	stored, _ := store.GetFinding(t.Context(), "f1")
	if photoset.Count(stored.Before) != 2 || !strings.HasPrefix(*stored.Before, "[") {
		t.Errorf("two photos should be stored as a JSON array, got %v", stored.Before)
	}
}

func TestPhotosHandler_Upload_Errors(t *testing.T) {
	t.Run("bad slot", func(t *testing.T) {
		setupStore(t)
		handler := newTestPhotosHandler(newMemPhotoStore())
		req := requestWithChiParams(multipartUpload(t, "/x", map[string][]byte{"a.png": testPNG(t, 2, 2)}),
			map[string]string{"id": "f1", "slot": "during"})
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)
		assertStatusCode(t, recorder, http.StatusBadRequest)
	})

	t.Run("unknown finding", func(t *testing.T) {
		setupStore(t)
		handler := newTestPhotosHandler(newMemPhotoStore())
		req := requestWithChiParams(multipartUpload(t, "/x", map[string][]byte{"a.png": testPNG(t, 2, 2)}),
			map[string]string{"id": "nope", "slot": "after"})
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)
		assertStatusCode(t, recorder, http.StatusNotFound)
	})

	t.Run("no files", func(t *testing.T) {
		store := setupStore(t)
		addTestShip(store)
		handler := newTestPhotosHandler(newMemPhotoStore())
		req := requestWithChiParams(multipartUpload(t, "/x", nil), map[string]string{"id": "f1", "slot": "after"})
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)
		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertJSONError(t, recorder, "no files provided")
	})

	t.Run("not an image", func(t *testing.T) {
		store := setupStore(t)
		addTestShip(store)
		photos := newMemPhotoStore()
		handler := newTestPhotosHandler(photos)
		req := requestWithChiParams(multipartUpload(t, "/x", map[string][]byte{"notes.txt": []byte("plain text")}),
			map[string]string{"id": "f1", "slot": "after"})
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)
		assertStatusCode(t, recorder, http.StatusBadRequest)
		if len(photos.objects) != 0 {
			t.Error("nothing should be stored")
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		store := setupStore(t)
		addTestShip(store)
		photos := newMemPhotoStore()
		photos.putErr = errMock
		handler := newTestPhotosHandler(photos)
		req := requestWithChiParams(multipartUpload(t, "/x", map[string][]byte{"a.png": testPNG(t, 2, 2)}),
			map[string]string{"id": "f1", "slot": "after"})
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)
		assertStatusCode(t, recorder, http.StatusBadGateway)
	})

	t.Run("record update failure removes stored photos", func(t *testing.T) {
		store := setupStore(t)
		addTestShip(store)
		store.UpdatePhotosError = errMock
		photos := newMemPhotoStore()
		handler := newTestPhotosHandler(photos)
		req := requestWithChiParams(multipartUpload(t, "/x", map[string][]byte{"a.png": testPNG(t, 2, 2)}),
			map[string]string{"id": "f1", "slot": "after"})
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)
		assertStatusCode(t, recorder, http.StatusInternalServerError)
		if len(photos.objects) != 0 || len(photos.deleted) != 1 {
			t.Errorf("uploaded photo should be cleaned up, objects=%d deleted=%v", len(photos.objects), photos.deleted)
		}
	})
}

func TestPhotosHandler_Remove(t *testing.T) {
	store := setupStore(t)
	f := addTestShip(store)
	f.After = photoset.Encode([]string{"mem://a.jpg", "mem://b.jpg"})
	store.AddFinding(f)
	photos := newMemPhotoStore()
	handler := newTestPhotosHandler(photos)

	remove := func(uri string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/api/v1/findings/f1/photos/after?uri="+uri, nil)
		req = requestWithChiParams(req, map[string]string{"id": "f1", "slot": "after"})
		recorder := httptest.NewRecorder()
		handler.Remove(recorder, req)
		return recorder
	}

	recorder := remove("mem://a.jpg")
	assertStatusCode(t, recorder, http.StatusOK)
	stored, _ := store.GetFinding(t.Context(), "f1")
	if stored.After == nil || *stored.After != "mem://b.jpg" {
		t.Errorf("one remaining photo should be stored bare, got %v", stored.After)
	}
	if len(photos.deleted) != 1 || photos.deleted[0] != "mem://a.jpg" {
		t.Errorf("photo not deleted from storage: %v", photos.deleted)
	}

	recorder = remove("mem://missing.jpg")
	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "photo not found")

	recorder = remove("mem://b.jpg")
	assertStatusCode(t, recorder, http.StatusOK)
	stored, _ = store.GetFinding(t.Context(), "f1")
	if stored.After != nil {
		t.Errorf("empty set should be stored as NULL, got %q", *stored.After)
	}

	recorder = remove("")
	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestPhotosHandler_Remove_KeepsReferencedObject(t *testing.T) {
	store := setupStore(t)
	f := addTestShip(store)
	f.Before = photoset.Encode([]string{"mem://a.jpg", "mem://a.jpg"})
	f.After = photoset.Ptr("mem://b.jpg")
	store.AddFinding(f)
	photos := newMemPhotoStore()
	handler := newTestPhotosHandler(photos)

	remove := func(slot, uri string) {
		t.Helper()
		req := httptest.NewRequest("DELETE", "/api/v1/findings/f1/photos/"+slot+"?uri="+uri, nil)
		req = requestWithChiParams(req, map[string]string{"id": "f1", "slot": slot})
		recorder := httptest.NewRecorder()
		handler.Remove(recorder, req)
		assertStatusCode(t, recorder, http.StatusOK)
	}

	remove("before", "mem://a.jpg")
	stored, _ := store.GetFinding(t.Context(), "f1")
	if got := photoset.Decode(stored.Before); len(got) != 1 || got[0] != "mem://a.jpg" {
		t.Fatalf("expected one remaining reference, got %v", got)
	}
	if len(photos.deleted) != 0 {
		t.Errorf("object still referenced must not be deleted, deleted %v", photos.deleted)
	}

	remove("before", "mem://a.jpg")
	if len(photos.deleted) != 1 || photos.deleted[0] != "mem://a.jpg" {
		t.Errorf("last reference removed, expected delete, got %v", photos.deleted)
	}
}

func TestPhotosHandler_Preview(t *testing.T) {
	store := setupStore(t)
	f := addTestShip(store)
	f.Before = photoset.Encode([]string{"mem://a.png", "mem://broken.png"})
	store.AddFinding(f)
	photos := newMemPhotoStore()
	photos.objects["mem://a.png"] = testPNG(t, 640, 480)
	photos.objects["mem://broken.png"] = []byte("not an image")
	handler := newTestPhotosHandler(photos)

	preview := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/v1/findings/f1/photos/before/preview"+query, nil)
		req = requestWithChiParams(req, map[string]string{"id": "f1", "slot": "before"})
		recorder := httptest.NewRecorder()
		handler.Preview(recorder, req)
		return recorder
	}

	t.Run("first photo at table size", func(t *testing.T) {
		recorder := preview("?preset=table")
		assertStatusCode(t, recorder, http.StatusOK)
		assertContentType(t, recorder, "image/jpeg")
		cfg, _, err := image.DecodeConfig(bytes.NewReader(recorder.Body.Bytes()))
		if err != nil {
			t.Fatalf("preview is not an image: %v", err)
		}
		if cfg.Width > 150 || cfg.Height > 112 {
			t.Errorf("preview %dx%d exceeds table preset", cfg.Width, cfg.Height)
		}
	})

	t.Run("undecodable photo", func(t *testing.T) {
		recorder := preview("?uri=mem://broken.png")
		assertStatusCode(t, recorder, http.StatusUnprocessableEntity)
	})

	t.Run("uri outside the set", func(t *testing.T) {
		recorder := preview("?uri=https://elsewhere.example.com/x.jpg")
		assertStatusCode(t, recorder, http.StatusNotFound)
	})

	t.Run("unknown preset", func(t *testing.T) {
		recorder := preview("?preset=poster")
		assertStatusCode(t, recorder, http.StatusBadRequest)
	})
}
