package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hconline/permission-manager/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{shared.ErrForbidden, http.StatusForbidden},
		{shared.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: id 42", shared.ErrRoleNotFound), http.StatusUnprocessableEntity},
		{shared.ErrLastAdmin, http.StatusConflict},
		{shared.ErrDuplicateEmail, http.StatusConflict},
		{fmt.Errorf("%w: bad payload", ErrValidation), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		res := httptest.NewRecorder()
		RespondError(res, tc.err)
		assert.Equal(t, tc.status, res.Code, "error %v", tc.err)

		var problem ProblemDetail
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
		assert.Equal(t, tc.status, problem.Status)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	res := httptest.NewRecorder()
	RespondError(res, errors.New("pq: relation users does not exist"))
	assert.NotContains(t, res.Body.String(), "relation users")
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var target struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","rogue":1}`))
	err := DecodeJSON(req, &target)
	assert.ErrorIs(t, err, ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	require.NoError(t, DecodeJSON(req, &target))
	assert.Equal(t, "a@b.co", target.Email)
}
