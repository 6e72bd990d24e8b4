package services

import (
	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/internal/security"
	"github.com/villagestay/villagestay/internal/store"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/logger"
)

// PostWriter is the part of the store the community service writes through.
type PostWriter interface {
	AddPostToVillage(villageID string, p store.NewPost) (models.CommunityPost, error)
}

type CommunityService struct {
	posts PostWriter
}

func NewCommunityService(posts PostWriter) *CommunityService {
	return &CommunityService{posts: posts}
}

// AddPost cleans user input and appends it to the village timeline.
func (s *CommunityService) AddPost(villageID string, p store.NewPost) (models.CommunityPost, error) {
	if !security.ValidateMediaURL(p.AvatarURL) || !security.ValidateMediaURL(p.ImageURL) || !security.ValidateMediaURL(p.VideoURL) {
		return models.CommunityPost{}, errors.New(errors.ErrCodeValidation, "media links must be absolute http(s) URLs")
	}

	clean := store.NewPost{
		Author:    security.SanitizeText(p.Author, security.MaxAuthorLength),
		AvatarURL: p.AvatarURL,
		Message:   security.SanitizeText(p.Message, security.MaxPostLength),
		ImageURL:  p.ImageURL,
		VideoURL:  p.VideoURL,
	}

	post, err := s.posts.AddPostToVillage(villageID, clean)
	if err != nil {
		return models.CommunityPost{}, err
	}

	logger.Info("Community post added", "village_id", villageID, "post_id", post.ID, "author", post.Author)
	return post, nil
}
