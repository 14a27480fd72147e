package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	a := newApp(t)

	w := a.postForm("/auth/register", "", url.Values{
		"username": {"newbie"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// duplicate username is rejected
	w = a.postForm("/auth/register", "", url.Values{
		"username": {"newbie"},
		"password": {"hunter22"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.postForm("/auth/login", "", url.Values{
		"username": {"newbie"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.Token)

	w = a.get("/auth/me", data.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.postForm("/auth/login", "", url.Values{
		"username": {"newbie"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFollowsNextParam(t *testing.T) {
	a := newApp(t)
	a.postForm("/auth/register", "", url.Values{
		"username": {"newbie"},
		"password": {"hunter22"},
	})

	w := a.postForm("/auth/login?next=%2Ffollow", "", url.Values{
		"username": {"newbie"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow", w.Header().Get("Location"))
}

func TestGroupCreationIsAdminOnly(t *testing.T) {
	a := newApp(t)
	admin := a.createUser(t, "admin")
	pleb := a.createUser(t, "pleb")

	w := a.postForm("/groups", a.token(t, pleb), url.Values{
		"title": {"Cats"}, "slug": {"cats"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.postForm("/groups", a.token(t, admin), url.Values{
		"title": {"Cats"}, "slug": {"cats"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// slugs are unique
	w = a.postForm("/groups", a.token(t, admin), url.Values{
		"title": {"Other"}, "slug": {"cats"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	resp := a.get("/group/cats", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}
