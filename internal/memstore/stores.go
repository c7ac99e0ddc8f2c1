package memstore

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"speshway-platform/internal/database"
	"speshway-platform/models"
)

type Clients struct{ t *table[models.Client] }

func NewClients() *Clients { return &Clients{t: newTable[models.Client]()} }

func (s *Clients) Len() int { return s.t.len() }

func (s *Clients) List(ctx context.Context, includeInactive bool) ([]models.Client, error) {
	return s.t.list(
		func(c models.Client) bool { return includeInactive || c.IsActive },
		func(a, b models.Client) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (s *Clients) Get(ctx context.Context, id string) (*models.Client, error) {
	doc, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Clients) Create(ctx context.Context, client *models.Client) error {
	client.ID = primitive.NewObjectID()
	s.t.put(client.ID, *client)
	return nil
}

func (s *Clients) Update(ctx context.Context, client *models.Client) error {
	return s.t.replace(client.ID, *client)
}

func (s *Clients) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

type HomeBanners struct{ t *table[models.HomeBanner] }

func NewHomeBanners() *HomeBanners { return &HomeBanners{t: newTable[models.HomeBanner]()} }

func (s *HomeBanners) Len() int { return s.t.len() }

func (s *HomeBanners) List(ctx context.Context, includeInactive bool) ([]models.HomeBanner, error) {
	return s.t.list(
		func(b models.HomeBanner) bool { return includeInactive || b.IsActive },
		func(a, b models.HomeBanner) bool {
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	), nil
}

func (s *HomeBanners) Get(ctx context.Context, id string) (*models.HomeBanner, error) {
	doc, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *HomeBanners) Create(ctx context.Context, banner *models.HomeBanner) error {
	banner.ID = primitive.NewObjectID()
	s.t.put(banner.ID, *banner)
	return nil
}

func (s *HomeBanners) Update(ctx context.Context, banner *models.HomeBanner) error {
	return s.t.replace(banner.ID, *banner)
}

func (s *HomeBanners) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

// HomeImages joins creators from users on read, like the aggregation does.
type HomeImages struct {
	t     *table[models.HomeImage]
	users *Users
}

func NewHomeImages(users *Users) *HomeImages {
	return &HomeImages{t: newTable[models.HomeImage](), users: users}
}

func (s *HomeImages) Len() int { return s.t.len() }

func (s *HomeImages) populate(img models.HomeImage) models.HomeImage {
	img.Creator = nil
	if s.users != nil {
		if u, ok := s.users.byID(img.CreatedBy); ok {
			img.Creator = &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return img
}

func (s *HomeImages) List(ctx context.Context, includeInactive bool) ([]models.HomeImage, error) {
	images := s.t.list(
		func(i models.HomeImage) bool { return includeInactive || i.IsActive },
		func(a, b models.HomeImage) bool {
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	)
	for i := range images {
		images[i] = s.populate(images[i])
	}
	return images, nil
}

func (s *HomeImages) Get(ctx context.Context, id string) (*models.HomeImage, error) {
	doc, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	doc = s.populate(doc)
	return &doc, nil
}

func (s *HomeImages) Create(ctx context.Context, image *models.HomeImage) error {
	image.ID = primitive.NewObjectID()
	doc := *image
	doc.Creator = nil
	s.t.put(image.ID, doc)
	return nil
}

func (s *HomeImages) Update(ctx context.Context, image *models.HomeImage) error {
	doc := *image
	doc.Creator = nil
	return s.t.replace(image.ID, doc)
}

func (s *HomeImages) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

type Sentences struct{ t *table[models.Sentence] }

func NewSentences() *Sentences { return &Sentences{t: newTable[models.Sentence]()} }

func (s *Sentences) Len() int { return s.t.len() }

func (s *Sentences) List(ctx context.Context) ([]models.Sentence, error) {
	return s.t.list(nil, func(a, b models.Sentence) bool { return a.RecordedAt.After(b.RecordedAt) }), nil
}

func (s *Sentences) Get(ctx context.Context, id string) (*models.Sentence, error) {
	doc, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Sentences) Create(ctx context.Context, sentence *models.Sentence) error {
	sentence.ID = primitive.NewObjectID()
	s.t.put(sentence.ID, *sentence)
	return nil
}

func (s *Sentences) Update(ctx context.Context, sentence *models.Sentence) error {
	return s.t.replace(sentence.ID, *sentence)
}

func (s *Sentences) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

type Users struct{ t *table[models.User] }

func NewUsers() *Users { return &Users{t: newTable[models.User]()} }

func (s *Users) byID(id primitive.ObjectID) (models.User, bool) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	u, ok := s.t.docs[id]
	return u, ok
}

func (s *Users) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := s.byID(id)
	return ok, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	for _, u := range s.t.list(nil, func(a, b models.User) bool { return false }) {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Users) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	s.t.put(user.ID, *user)
	return nil
}
