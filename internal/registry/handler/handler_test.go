package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"crudlandia/internal/registry/service"
	examplestore "crudlandia/internal/registry/store/example"
	productstore "crudlandia/internal/registry/store/product"
	referencestore "crudlandia/internal/registry/store/reference"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
	refID  string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	refStore := referencestore.NewInMemory()
	h := New(
		service.NewExampleService(examplestore.NewInMemory(), refStore, service.WithLogger(logger)),
		service.NewProductService(productstore.NewInMemory(), service.WithLogger(logger)),
		service.NewReferenceService(refStore, service.WithLogger(logger)),
		logger,
	)

	s.router = chi.NewRouter()
	h.Register(s.router)

	body := s.do(http.MethodPost, "/api/references", map[string]any{
		"code": "REF-1",
		"name": "default reference",
	}, http.StatusCreated)
	s.refID = body["id"].(string)
}

// do performs a request and decodes the JSON response, asserting the status.
func (s *HandlerSuite) do(method, path string, payload any, wantStatus int) map[string]any {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(wantStatus, rec.Code, "body: %s", rec.Body.String())

	if rec.Body.Len() == 0 {
		return nil
	}
	var body map[string]any
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func (s *HandlerSuite) exampleBody(name string) map[string]any {
	return map[string]any{
		"reference_id": s.refID,
		"name":         name,
		"sequence":     1,
		"issued_at":    "2026-03-01T10:00:00Z",
	}
}

func (s *HandlerSuite) TestCreateExampleReturnsCreatedRecord() {
	body := s.do(http.MethodPost, "/api/examples", s.exampleBody("widget"), http.StatusCreated)
	s.NotEmpty(body["id"])
	s.Equal("ACTIVE", body["status"])
	s.Equal(float64(1), body["version"])
}

func (s *HandlerSuite) TestCreateExampleDuplicateNameIsConflict() {
	first := s.do(http.MethodPost, "/api/examples", s.exampleBody("widget"), http.StatusCreated)

	body := s.do(http.MethodPost, "/api/examples", s.exampleBody("widget"), http.StatusConflict)
	s.Equal("name_conflict", body["error"])
	details := body["details"].(map[string]any)
	s.Equal(first["id"], details["existing_id"])
}

func (s *HandlerSuite) TestCreateExampleUnknownReferenceIsNotFound() {
	payload := s.exampleBody("widget")
	payload["reference_id"] = "0b9fadbe-3c57-4b0e-9a1f-79d57a2b1a10"

	body := s.do(http.MethodPost, "/api/examples", payload, http.StatusNotFound)
	s.Equal("reference_not_found", body["error"])
}

func (s *HandlerSuite) TestCreateExampleMalformedReferenceIDIsValidation() {
	payload := s.exampleBody("widget")
	payload["reference_id"] = "not-a-uuid"

	body := s.do(http.MethodPost, "/api/examples", payload, http.StatusBadRequest)
	s.Equal("validation", body["error"])
}

func (s *HandlerSuite) TestMalformedJSONIsValidation() {
	req := httptest.NewRequest(http.MethodPost, "/api/examples", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGetExampleUnknownIDIsNotFound() {
	body := s.do(http.MethodGet, "/api/examples/0b9fadbe-3c57-4b0e-9a1f-79d57a2b1a10", nil, http.StatusNotFound)
	s.Equal("not_found", body["error"])
}

func (s *HandlerSuite) TestGetExampleMalformedIDIsValidation() {
	body := s.do(http.MethodGet, "/api/examples/nope", nil, http.StatusBadRequest)
	s.Equal("validation", body["error"])
}

func (s *HandlerSuite) TestUpdateExampleRoundTrip() {
	created := s.do(http.MethodPost, "/api/examples", s.exampleBody("widget"), http.StatusCreated)

	payload := s.exampleBody("widget")
	payload["sequence"] = 9
	body := s.do(http.MethodPut, "/api/examples/"+created["id"].(string), payload, http.StatusOK)
	s.Equal(float64(9), body["sequence"])
	s.Equal(float64(2), body["version"])
}

func (s *HandlerSuite) TestDeactivateExampleReturnsInactive() {
	created := s.do(http.MethodPost, "/api/examples", s.exampleBody("widget"), http.StatusCreated)

	body := s.do(http.MethodPut, "/api/examples/"+created["id"].(string)+"/deactivate", nil, http.StatusOK)
	s.Equal("INACTIVE", body["status"])

	fetched := s.do(http.MethodGet, "/api/examples/"+created["id"].(string), nil, http.StatusOK)
	s.Equal("INACTIVE", fetched["status"])
}

func (s *HandlerSuite) TestDeleteExampleReturnsNoContent() {
	created := s.do(http.MethodPost, "/api/examples", s.exampleBody("widget"), http.StatusCreated)
	id := created["id"].(string)

	s.do(http.MethodDelete, "/api/examples/"+id, nil, http.StatusNoContent)
	s.do(http.MethodGet, "/api/examples/"+id, nil, http.StatusNotFound)
}

func (s *HandlerSuite) TestSearchExamplesPaginatesWithEnvelope() {
	for _, name := range []string{"alpha", "beta", "gamma"} {
		s.do(http.MethodPost, "/api/examples", s.exampleBody(name), http.StatusCreated)
	}

	body := s.do(http.MethodPost, "/api/examples/search", map[string]any{
		"column_type": "name",
		"order_type":  "asc",
		"page_number": 1,
		"page_size":   2,
	}, http.StatusOK)
	s.Equal(float64(3), body["total"])
	s.Equal(float64(1), body["page_number"])
	s.Equal(float64(2), body["page_size"])
	items := body["items"].([]any)
	s.Require().Len(items, 2)
	s.Equal("alpha", items[0].(map[string]any)["name"])
}

func (s *HandlerSuite) TestSearchExamplesRejectsUnknownSortColumn() {
	body := s.do(http.MethodPost, "/api/examples/search", map[string]any{
		"column_type": "version",
	}, http.StatusBadRequest)
	s.Equal("invalid_sort_column", body["error"])
}

func (s *HandlerSuite) productBody(code, name string) map[string]any {
	return map[string]any{
		"code":   code,
		"name":   name,
		"value":  "4.20",
		"active": true,
	}
}

func (s *HandlerSuite) TestCreateProductRequiresValueAndActive() {
	payload := s.productBody("P-1", "soap")
	delete(payload, "active")
	body := s.do(http.MethodPost, "/api/products", payload, http.StatusBadRequest)
	s.Equal("validation", body["error"])

	payload = s.productBody("P-1", "soap")
	delete(payload, "value")
	body = s.do(http.MethodPost, "/api/products", payload, http.StatusBadRequest)
	s.Equal("validation", body["error"])
}

func (s *HandlerSuite) TestUpdateOmittingActiveCannotReactivate() {
	created := s.do(http.MethodPost, "/api/products", s.productBody("P-1", "soap"), http.StatusCreated)
	id := created["id"].(string)

	deactivated := s.do(http.MethodPut, "/api/products/"+id+"/deactivate", nil, http.StatusOK)
	s.Equal(false, deactivated["active"])

	payload := s.productBody("P-1", "soap")
	delete(payload, "active")
	body := s.do(http.MethodPut, "/api/products/"+id, payload, http.StatusBadRequest)
	s.Equal("validation", body["error"])

	fetched := s.do(http.MethodGet, "/api/products/"+id, nil, http.StatusOK)
	s.Equal(false, fetched["active"])
}

func (s *HandlerSuite) TestCreateProductDuplicateCodeWinsOverName() {
	first := s.do(http.MethodPost, "/api/products", s.productBody("P-1", "soap"), http.StatusCreated)

	body := s.do(http.MethodPost, "/api/products", s.productBody("P-1", "soap"), http.StatusConflict)
	s.Equal("duplicate_code", body["error"])
	details := body["details"].(map[string]any)
	s.Equal(first["id"], details["existing_id"])

	body = s.do(http.MethodPost, "/api/products", s.productBody("P-2", "soap"), http.StatusConflict)
	s.Equal("duplicate_name", body["error"])
}

func (s *HandlerSuite) TestUpdateProductClashIsBareConflict() {
	s.do(http.MethodPost, "/api/products", s.productBody("P-1", "soap"), http.StatusCreated)
	other := s.do(http.MethodPost, "/api/products", s.productBody("P-2", "shampoo"), http.StatusCreated)

	body := s.do(http.MethodPut, "/api/products/"+other["id"].(string),
		s.productBody("P-1", "shampoo"), http.StatusConflict)
	s.Equal("conflict", body["error"])
}

func (s *HandlerSuite) TestDeactivateProductIsIdempotent() {
	created := s.do(http.MethodPost, "/api/products", s.productBody("P-1", "soap"), http.StatusCreated)
	id := created["id"].(string)

	body := s.do(http.MethodPut, "/api/products/"+id+"/deactivate", nil, http.StatusOK)
	s.Equal(false, body["active"])
	body = s.do(http.MethodPut, "/api/products/"+id+"/deactivate", nil, http.StatusOK)
	s.Equal(false, body["active"])
}

func (s *HandlerSuite) TestSearchProductsFiltersByCode() {
	s.do(http.MethodPost, "/api/products", s.productBody("SKU-1", "soap"), http.StatusCreated)
	s.do(http.MethodPost, "/api/products", s.productBody("OTHER-1", "towel"), http.StatusCreated)

	body := s.do(http.MethodPost, "/api/products/search", map[string]any{
		"code":        "sku",
		"column_type": "code",
	}, http.StatusOK)
	s.Equal(float64(1), body["total"])
}

func (s *HandlerSuite) TestReferenceCreateAndGet() {
	created := s.do(http.MethodPost, "/api/references", map[string]any{
		"code": "REF-2",
		"name": "second reference",
	}, http.StatusCreated)

	fetched := s.do(http.MethodGet, "/api/references/"+created["id"].(string), nil, http.StatusOK)
	s.Equal("REF-2", fetched["code"])

	body := s.do(http.MethodPost, "/api/references", map[string]any{"code": "", "name": "x"}, http.StatusBadRequest)
	s.Equal("validation", body["error"])
}
