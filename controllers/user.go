package controllers

import (
	"errors"
	"net/http"
	"strings"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// UserController handles user-related requests
type UserController struct {
	Collection store.Collection
}

// NewUserController creates a new UserController
func NewUserController(db *store.Database) *UserController {
	return &UserController{Collection: db.Users}
}

// IssueToken signs a token for the posted user identity
func (uc *UserController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var identity struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !decodeBody(w, r, &identity) {
		return
	}
	if strings.TrimSpace(identity.Email) == "" {
		utils.WriteMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := utils.GenerateJWT(identity.Email, identity.Name)
	if err != nil {
		storeFailed(w, "token signing", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetUsers lists every user (admin only)
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	users := []models.User{}
	if err := uc.Collection.Find(ctx, bson.M{}, &users); err != nil {
		storeFailed(w, "fetching users", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// CheckAdmin reports whether the caller holds the admin role
func (uc *UserController) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	uc.checkRole(w, r, models.RoleAdmin)
}

// CheckModerator reports whether the caller holds the moderator role
func (uc *UserController) CheckModerator(w http.ResponseWriter, r *http.Request) {
	uc.checkRole(w, r, models.RoleModerator)
}

func (uc *UserController) checkRole(w http.ResponseWriter, r *http.Request, role string) {
	email, ok := requireOwnEmail(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": email}, &user)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		storeFailed(w, "fetching user", err)
		return
	}

	hasRole := err == nil && user.Role == role
	utils.WriteJSON(w, http.StatusOK, map[string]bool{role: hasRole})
}

// CreateUser stores a user on first sign-in, keyed by email
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		utils.WriteMessage(w, http.StatusBadRequest, "email is required")
		return
	}
	// roles are granted through UpdateRole only
	user.Role = ""

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := uc.Collection.InsertIfAbsent(ctx, bson.M{"email": user.Email}, user)
	if err != nil {
		storeFailed(w, "creating user", err)
		return
	}
	if result.InsertedID == nil {
		utils.WriteJSON(w, http.StatusOK, models.NewDuplicate("User"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateRole sets a user's role
func (uc *UserController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if !models.ValidRole(body.Role) {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid role")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": body.Role},
	})
	if err != nil {
		storeFailed(w, "updating user role", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteUser removes a user by id
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := uc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		storeFailed(w, "deleting user", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
