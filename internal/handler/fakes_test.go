package handler

import (
	"context"
	"sort"

	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

// In-memory stores backing the services under the router tests. They return
// the repository sentinels the services translate.

type memUserStore struct {
	nextID int64
	users  []*model.User
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	user.ID = s.nextID
	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) Update(_ context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	for i, u := range s.users {
		if u.ID == user.ID {
			clone := *user
			s.users[i] = &clone
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type memTagStore struct {
	nextID int64
	tags   []model.Tag
}

func (s *memTagStore) ListByUser(_ context.Context, userID int64, _ bool) ([]model.Tag, error) {
	var out []model.Tag
	for _, t := range s.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s *memTagStore) GetOrCreate(_ context.Context, userID int64, name string) (model.Tag, error) {
	for _, t := range s.tags {
		if t.UserID == userID && t.Name == name {
			return t, nil
		}
	}
	s.nextID++
	t := model.Tag{ID: s.nextID, UserID: userID, Name: name}
	s.tags = append(s.tags, t)
	return t, nil
}

func (s *memTagStore) Rename(_ context.Context, userID, tagID int64, name string) (model.Tag, error) {
	for _, t := range s.tags {
		if t.UserID == userID && t.ID != tagID && t.Name == name {
			return model.Tag{}, repository.ErrDuplicateTagName
		}
	}
	for i, t := range s.tags {
		if t.ID == tagID && t.UserID == userID {
			s.tags[i].Name = name
			return s.tags[i], nil
		}
	}
	return model.Tag{}, repository.ErrTagNotFound
}

func (s *memTagStore) Delete(_ context.Context, userID, tagID int64) error {
	for i, t := range s.tags {
		if t.ID == tagID && t.UserID == userID {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return nil
		}
	}
	return repository.ErrTagNotFound
}

type memIngredientStore struct {
	nextID      int64
	ingredients []model.Ingredient
}

func (s *memIngredientStore) ListByUser(_ context.Context, userID int64, _ bool) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, ing := range s.ingredients {
		if ing.UserID == userID {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s *memIngredientStore) GetOrCreate(_ context.Context, userID int64, name string) (model.Ingredient, error) {
	for _, ing := range s.ingredients {
		if ing.UserID == userID && ing.Name == name {
			return ing, nil
		}
	}
	s.nextID++
	ing := model.Ingredient{ID: s.nextID, UserID: userID, Name: name}
	s.ingredients = append(s.ingredients, ing)
	return ing, nil
}

func (s *memIngredientStore) Rename(_ context.Context, userID, ingredientID int64, name string) (model.Ingredient, error) {
	for i, ing := range s.ingredients {
		if ing.ID == ingredientID && ing.UserID == userID {
			s.ingredients[i].Name = name
			return s.ingredients[i], nil
		}
	}
	return model.Ingredient{}, repository.ErrIngredientNotFound
}

func (s *memIngredientStore) Delete(_ context.Context, userID, ingredientID int64) error {
	for i, ing := range s.ingredients {
		if ing.ID == ingredientID && ing.UserID == userID {
			s.ingredients = append(s.ingredients[:i], s.ingredients[i+1:]...)
			return nil
		}
	}
	return repository.ErrIngredientNotFound
}

type memRecipeStore struct {
	nextID  int64
	recipes []*model.Recipe
}

func copyRecipe(r *model.Recipe) *model.Recipe {
	clone := *r
	clone.Tags = append([]model.Tag{}, r.Tags...)
	clone.Ingredients = append([]model.Ingredient{}, r.Ingredients...)
	return &clone
}

func (s *memRecipeStore) List(_ context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.Recipe, error) {
	var out []model.Recipe
	for _, r := range s.recipes {
		if r.UserID != userID {
			continue
		}
		if len(tagIDs) > 0 && !hasAnyTag(r.Tags, tagIDs) {
			continue
		}
		if len(ingredientIDs) > 0 && !hasAnyIngredient(r.Ingredients, ingredientIDs) {
			continue
		}
		out = append(out, *copyRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memRecipeStore) GetByID(_ context.Context, userID, recipeID int64) (*model.Recipe, error) {
	for _, r := range s.recipes {
		if r.ID == recipeID && r.UserID == userID {
			return copyRecipe(r), nil
		}
	}
	return nil, repository.ErrRecipeNotFound
}

func (s *memRecipeStore) Create(_ context.Context, recipe *model.Recipe) error {
	s.nextID++
	recipe.ID = s.nextID
	s.recipes = append(s.recipes, copyRecipe(recipe))
	return nil
}

func (s *memRecipeStore) Update(_ context.Context, recipe *model.Recipe, setTags, setIngredients bool) error {
	for i, r := range s.recipes {
		if r.ID == recipe.ID && r.UserID == recipe.UserID {
			updated := copyRecipe(recipe)
			if !setTags {
				updated.Tags = r.Tags
			}
			if !setIngredients {
				updated.Ingredients = r.Ingredients
			}
			updated.ImagePath = r.ImagePath
			s.recipes[i] = updated
			return nil
		}
	}
	return repository.ErrRecipeNotFound
}

func (s *memRecipeStore) Delete(_ context.Context, userID, recipeID int64) (string, error) {
	for i, r := range s.recipes {
		if r.ID == recipeID && r.UserID == userID {
			path := r.ImagePath
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return path, nil
		}
	}
	return "", repository.ErrRecipeNotFound
}

func (s *memRecipeStore) SetImage(_ context.Context, userID, recipeID int64, path string) (string, error) {
	for _, r := range s.recipes {
		if r.ID == recipeID && r.UserID == userID {
			old := r.ImagePath
			r.ImagePath = path
			return old, nil
		}
	}
	return "", repository.ErrRecipeNotFound
}

func hasAnyTag(tags []model.Tag, ids []int64) bool {
	for _, t := range tags {
		for _, id := range ids {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

func hasAnyIngredient(ingredients []model.Ingredient, ids []int64) bool {
	for _, ing := range ingredients {
		for _, id := range ids {
			if ing.ID == id {
				return true
			}
		}
	}
	return false
}
