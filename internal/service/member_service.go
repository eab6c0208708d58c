package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/repository"
	"fitbro/gym-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberNotInGym   = errors.New("member does not belong to this gym")
	ErrInvalidPhotoType = errors.New("invalid or missing image content type")
	ErrNoPhoto          = errors.New("member has no photo")
	ErrInvalidObjectKey = errors.New("object key does not belong to this member")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// PhotoUploadURLResponse returns the presigned URL plus the object key the
// client reports back after the upload succeeds.
type PhotoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// MemberService manages members within the tenant's gym.
type MemberService interface {
	CreateMember(ctx context.Context, tenant domain.TenantContext, member *domain.Member) (*domain.Member, error)
	GetMember(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) (*domain.Member, error)
	ListMembers(ctx context.Context, tenant domain.TenantContext) ([]domain.Member, error)
	UpdateMember(ctx context.Context, tenant domain.TenantContext, member *domain.Member) (*domain.Member, error)

	// Photo handling goes through presigned URLs; the backend never sees bytes.
	RequestPhotoUploadURL(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, contentType string) (*PhotoUploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, objectKey string) error
	GetPhotoDownloadURL(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) (string, error)
}

type memberService struct {
	memberRepo  repository.MemberRepository
	fileStorage storage.FileStorage
}

// NewMemberService creates a new instance of memberService.
func NewMemberService(memberRepo repository.MemberRepository, fileStorage storage.FileStorage) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		fileStorage: fileStorage,
	}
}

// getOwnedMember loads a member and verifies gym ownership against the tenant.
func (s *memberService) getOwnedMember(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if !tenant.OwnsMember(member) {
		return nil, ErrMemberNotInGym
	}
	return member, nil
}

func (s *memberService) CreateMember(ctx context.Context, tenant domain.TenantContext, member *domain.Member) (*domain.Member, error) {
	member.GymID = tenant.GymID // ownership comes from the tenant, never the payload
	if member.JoinDate.IsZero() {
		member.JoinDate = domain.Today()
	}
	member.Active = true

	memberID, err := s.memberRepo.Create(ctx, member)
	if err != nil {
		return nil, err
	}
	member.ID = memberID
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) (*domain.Member, error) {
	return s.getOwnedMember(ctx, tenant, memberID)
}

func (s *memberService) ListMembers(ctx context.Context, tenant domain.TenantContext) ([]domain.Member, error) {
	return s.memberRepo.GetByGymID(ctx, tenant.GymID)
}

func (s *memberService) UpdateMember(ctx context.Context, tenant domain.TenantContext, member *domain.Member) (*domain.Member, error) {
	existing, err := s.getOwnedMember(ctx, tenant, member.ID)
	if err != nil {
		return nil, err
	}
	member.GymID = existing.GymID
	member.PhotoObjectKey = existing.PhotoObjectKey // photo moves via Confirm only
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RequestPhotoUploadURL generates a presigned PUT URL for a member photo.
func (s *memberService) RequestPhotoUploadURL(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, contentType string) (*PhotoUploadURLResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidPhotoType
	}
	member, err := s.getOwnedMember(ctx, tenant, memberID)
	if err != nil {
		return nil, err
	}

	ext := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	objectKey := path.Join("member-photos", tenant.GymID.Hex(), member.ID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &PhotoUploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhotoUpload records the uploaded object key on the member and drops
// the previous photo object, if any.
func (s *memberService) ConfirmPhotoUpload(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, objectKey string) error {
	member, err := s.getOwnedMember(ctx, tenant, memberID)
	if err != nil {
		return err
	}

	// Only keys minted by RequestPhotoUploadURL for this exact member are
	// accepted; anything else would let a client attach an arbitrary bucket
	// object and read it back through the download URL.
	expectedPrefix := path.Join("member-photos", tenant.GymID.Hex(), member.ID.Hex()) + "/"
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		return ErrInvalidObjectKey
	}

	previousKey := member.PhotoObjectKey
	member.PhotoObjectKey = objectKey
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return err
	}

	if previousKey != "" && previousKey != objectKey {
		// Best effort; a stale object is not worth failing the request over.
		_ = s.fileStorage.DeleteObject(ctx, previousKey)
	}
	return nil
}

// GetPhotoDownloadURL generates a temporary URL for viewing a member's photo.
func (s *memberService) GetPhotoDownloadURL(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) (string, error) {
	member, err := s.getOwnedMember(ctx, tenant, memberID)
	if err != nil {
		return "", err
	}
	if member.PhotoObjectKey == "" {
		return "", ErrNoPhoto
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, member.PhotoObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return url, nil
}
