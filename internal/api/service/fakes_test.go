package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	cp := *user
	f.users[user.ID] = &cp
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Search(_ context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.User
	for _, u := range f.users {
		if search == "" || strings.Contains(u.Username, search) {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeUserRepo) DeleteByUsername(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.Username == username {
			delete(f.users, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ConsumeConfirmationCode(_ context.Context, userID, codeHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.ConfirmationCode == nil || *u.ConfirmationCode != codeHash {
		return false, nil
	}
	u.ConfirmationCode = nil
	u.CodeExpiresAt = nil
	return true, nil
}

type fakeTitleRepo struct {
	mu     sync.Mutex
	nextID int64
	titles map[int64]*models.Title
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{nextID: 1, titles: map[int64]*models.Title{}}
}

func (f *fakeTitleRepo) add(title *models.Title) *models.Title {
	f.mu.Lock()
	defer f.mu.Unlock()
	if title.ID == 0 {
		title.ID = f.nextID
		f.nextID++
	}
	cp := *title
	f.titles[title.ID] = &cp
	return title
}

func (f *fakeTitleRepo) List(_ context.Context, _ repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Title
	for _, t := range f.titles {
		list = append(list, *t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, int64(len(list)), nil
}

func (f *fakeTitleRepo) GetByID(_ context.Context, id int64) (*models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTitleRepo) Create(_ context.Context, title *models.Title) error {
	f.add(title)
	return nil
}

func (f *fakeTitleRepo) Update(_ context.Context, title *models.Title) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[title.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *title
	f.titles[title.ID] = &cp
	return nil
}

func (f *fakeTitleRepo) UpdateWithGenres(_ context.Context, title *models.Title, genres []models.Genre) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[title.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	title.Genres = genres
	cp := *title
	f.titles[title.ID] = &cp
	return nil
}

func (f *fakeTitleRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.titles, id)
	return nil
}

func (f *fakeTitleRepo) GetRating(_ context.Context, id int64) (*int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t.Rating, nil
}

func (f *fakeTitleRepo) SetRating(_ context.Context, id int64, rating *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.titles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Rating = rating
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*models.Review
	authors map[string]*models.User
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		nextID:  1,
		reviews: map[int64]*models.Review{},
		authors: map[string]*models.User{},
	}
}

func (f *fakeReviewRepo) knowAuthor(user *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authors[user.ID] = user
}

func (f *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.TitleID == review.TitleID && r.AuthorID == review.AuthorID {
			return repository.ErrDuplicateKey
		}
	}
	review.ID = f.nextID
	f.nextID++
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[review.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, reviewID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[reviewID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.reviews, reviewID)
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, reviewID int64) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[reviewID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	if author, ok := f.authors[cp.AuthorID]; ok {
		cp.Author = *author
	}
	return &cp, nil
}

func (f *fakeReviewRepo) GetByTitle(_ context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Review
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			cp := *r
			if author, ok := f.authors[cp.AuthorID]; ok {
				cp.Author = *author
			}
			list = append(list, cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, int64(len(list)), nil
}

func (f *fakeReviewRepo) GetByTitleAndAuthor(_ context.Context, titleID int64, authorID string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) ScoreStats(_ context.Context, titleID int64) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, count := 0, 0
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), int64(count), nil
}

// fakeMailer records sent codes instead of talking to SMTP.
type fakeMailer struct {
	mu    sync.Mutex
	codes map[string]string // username -> last code
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: map[string]string{}}
}

func (f *fakeMailer) SendConfirmationCode(_, username, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[username] = code
	return nil
}

func (f *fakeMailer) lastCode(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[username]
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	categories map[string]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1, categories: map[string]*models.Category{}}
}

func (f *fakeCategoryRepo) add(category *models.Category) *models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category.ID == 0 {
		category.ID = f.nextID
		f.nextID++
	}
	cp := *category
	f.categories[category.Slug] = &cp
	return category
}

func (f *fakeCategoryRepo) Search(_ context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Category
	for _, c := range f.categories {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			list = append(list, *c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, int64(len(list)), nil
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	if _, exists := f.categories[category.Slug]; exists {
		f.mu.Unlock()
		return repository.ErrDuplicateKey
	}
	f.mu.Unlock()
	f.add(category)
	return nil
}

func (f *fakeCategoryRepo) DeleteBySlug(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[slug]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.categories, slug)
	return nil
}

type fakeGenreRepo struct {
	mu     sync.Mutex
	nextID int64
	genres map[string]*models.Genre
}

func newFakeGenreRepo() *fakeGenreRepo {
	return &fakeGenreRepo{nextID: 1, genres: map[string]*models.Genre{}}
}

func (f *fakeGenreRepo) add(genre *models.Genre) *models.Genre {
	f.mu.Lock()
	defer f.mu.Unlock()
	if genre.ID == 0 {
		genre.ID = f.nextID
		f.nextID++
	}
	cp := *genre
	f.genres[genre.Slug] = &cp
	return genre
}

func (f *fakeGenreRepo) Search(_ context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Genre
	for _, g := range f.genres {
		if search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			list = append(list, *g)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, int64(len(list)), nil
}

func (f *fakeGenreRepo) GetBySlug(_ context.Context, slug string) (*models.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.genres[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGenreRepo) GetBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Genre
	for _, slug := range slugs {
		if g, ok := f.genres[slug]; ok {
			list = append(list, *g)
		}
	}
	return list, nil
}

func (f *fakeGenreRepo) Create(_ context.Context, genre *models.Genre) error {
	f.mu.Lock()
	if _, exists := f.genres[genre.Slug]; exists {
		f.mu.Unlock()
		return repository.ErrDuplicateKey
	}
	f.mu.Unlock()
	f.add(genre)
	return nil
}

func (f *fakeGenreRepo) DeleteBySlug(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.genres[slug]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.genres, slug)
	return nil
}
