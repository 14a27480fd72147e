package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/models"
)

func followCount(t *testing.T, a *app) int64 {
	t.Helper()
	var count int64
	require.NoError(t, a.db.Model(&models.Follow{}).Count(&count).Error)
	return count
}

func TestFollowTwiceLeavesOneEdge(t *testing.T) {
	a := newApp(t)
	a.createUser(t, "author")
	follower := a.createUser(t, "follower")
	token := a.token(t, follower)

	w := a.get("/profile/author/follow", token)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/author", w.Header().Get("Location"))

	w = a.get("/profile/author/follow", token)
	require.Equal(t, http.StatusFound, w.Code)

	assert.Equal(t, int64(1), followCount(t, a))
}

func TestSelfFollowIsSilentlyAbsorbed(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")

	w := a.get("/profile/leo/follow", a.token(t, leo))
	// no error surfaces; the caller lands back on the profile
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo", w.Header().Get("Location"))
	assert.Zero(t, followCount(t, a))
}

func TestUnfollowMissingEdgeIsNoOp(t *testing.T) {
	a := newApp(t)
	a.createUser(t, "author")
	follower := a.createUser(t, "follower")
	token := a.token(t, follower)

	w := a.get("/profile/author/unfollow", token)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Zero(t, followCount(t, a))

	a.get("/profile/author/follow", token)
	require.Equal(t, int64(1), followCount(t, a))
	a.get("/profile/author/unfollow", token)
	assert.Zero(t, followCount(t, a))
}

func TestFollowUnknownUsernameIs404(t *testing.T) {
	a := newApp(t)
	follower := a.createUser(t, "follower")
	w := a.get("/profile/ghost/follow", a.token(t, follower))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowRequiresLogin(t *testing.T) {
	a := newApp(t)
	a.createUser(t, "author")
	w := a.get("/profile/author/follow", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?next=%2Fprofile%2Fauthor%2Ffollow", w.Header().Get("Location"))
}
