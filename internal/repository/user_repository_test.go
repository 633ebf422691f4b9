package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/testutil"
)

func TestUserRepositoryEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Naruto", Email: "  Naruto@Konoha.com "}
	user.SetPassword("123456")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "naruto@konoha.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordPending() || !user.CheckPassword("123456") {
		t.Fatal("expected password hashed on create")
	}

	found, err := repo.GetByEmail(ctx, "NARUTO@konoha.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("expected %s, got %s", user.ID, found.ID)
	}

	exists, err := repo.EmailExists(ctx, "naruto@KONOHA.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists = %v, %v", exists, err)
	}

	dup := &models.User{Name: "Other", Email: "NARUTO@KONOHA.COM"}
	dup.SetPassword("654321")
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepositoryPasswordHashedOnlyWhenChanged(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Sasuke", "sasuke@konoha.com", "123456")
	original := user.PasswordHash

	user.Name = "Sasuke Uchiha"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PasswordHash != original {
		t.Fatal("expected digest unchanged when password was not set")
	}
	if reloaded.Name != "Sasuke Uchiha" {
		t.Fatalf("expected name update, got %q", reloaded.Name)
	}

	reloaded.SetPassword("chidori")
	if err := repo.Update(ctx, reloaded); err != nil {
		t.Fatalf("update password: %v", err)
	}
	again, _ := repo.GetByID(ctx, user.ID)
	if again.PasswordHash == original || !again.CheckPassword("chidori") || again.CheckPassword("123456") {
		t.Fatal("expected new digest matching the new password only")
	}
}

func TestUserRepositoryNotFound(t *testing.T) {
	repo := NewUserRepository(testutil.NewTestDB(t))
	if _, err := repo.GetByID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(context.Background(), "nobody@konoha.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
