package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/microservices/http-api/dto"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewHTTPClient(srv.URL)
	c.SetToken("tok")
	return c
}

func TestServe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/library/serve", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"book_id":1,"reader_id":2}`, string(body))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":9,"book_id":1,"reader_id":2,"borrow_date":"2024-03-01T12:00:00Z","return_date":null}`)
	})

	loan, err := c.Serve(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), loan.ID)
	assert.Nil(t, loan.ReturnDate)
}

func TestServe_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Limit by items is reached","kind":"LIMIT_REACHED"}`)
	})

	_, err := c.Serve(context.Background(), 1, 2)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "LIMIT_REACHED", apiErr.Kind)
	assert.Equal(t, "Limit by items is reached (400 LIMIT_REACHED)", apiErr.Error())
}

func TestDeleteBook_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/books/4", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DeleteBook(context.Background(), 4))
}

func TestListBooks_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		io.WriteString(w, `{"items":[{"id":1,"title":"Dune","author":"Herbert","quantity":3}],"total":6,"page":2,"size":5}`)
	})

	res, err := c.ListBooks(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Dune", res.Items[0].Title)
}

func TestErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Login(context.Background(), &dto.LoginRequest{Email: "a@b.c", Password: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "502 Bad Gateway", apiErr.Detail)
}

func TestSetRole(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/admin/users/u-1/role", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"role":"admin"}`, string(body))
		io.WriteString(w, `{"id":"u-1","email":"desk@library.test","role":"admin"}`)
	})

	user, err := c.SetRole(context.Background(), "u-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
}
