package owner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"shopRadar/domain"
	"shopRadar/pkg/logger"
	"shopRadar/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// OwnerRepository contract interface
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	FindByID(ctx context.Context, id uint64) (domain.Owner, error)
	FindByEmail(ctx context.Context, email string) (domain.Owner, error)
	UpdateEmailVerification(ctx context.Context, id uint64, isVerified bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type ownerService struct {
	ownerRepo               OwnerRepository
	validate                *validator.Validate
	notifRepo               NotificationRepository
	appEmailVerificationKey string
	appDeploymentUrl        string
}

const (
	verificationCodeTTL      = 5
	SubjectRegisterAccount   = "Activate Your Account!"
	EmailBodyRegisterAccount = `Hello %v, activate your account by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

func NewOwnerService(
	ownerRepo OwnerRepository,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *ownerService {
	return &ownerService{
		ownerRepo:               ownerRepo,
		validate:                validate,
		notifRepo:               notifRepo,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

func (s *ownerService) Register(ctx context.Context, owner *domain.Owner) (domain.Owner, error) {
	if err := s.validate.Var(owner.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.Owner{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(owner.Password, "required,min=6"); err != nil {
		logger.Error("Invalid owner password", err)
		return domain.Owner{}, errors.New("password must be at least 6 characters")
	}

	// Check if email already exists
	existingOwner, err := s.ownerRepo.FindByEmail(ctx, owner.Email)
	if err == nil && existingOwner.ID > 0 {
		logger.Error("Email already exists")
		return domain.Owner{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(owner.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.Owner{}, errors.New("failed to hash password")
	}

	newOwner := domain.Owner{
		FullName:   owner.FullName,
		Email:      owner.Email,
		Password:   string(passwordHash),
		IsVerified: false,
	}

	if err := s.ownerRepo.Create(ctx, &newOwner); err != nil {
		logger.Error("Failed to create new owner")
		return domain.Owner{}, err
	}

	timeNow := time.Now()
	expAt := timeNow.Add(time.Duration(time.Minute * verificationCodeTTL)).Unix()

	verificationCode := fmt.Sprintf("%v|%v", newOwner.Email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Fatal("error when encrypt")
	}
	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	activationLink := s.appDeploymentUrl + "/api/v1/owners/email-verification/" + strEncode

	err = s.notifRepo.SendEmail(newOwner.FullName, newOwner.Email, SubjectRegisterAccount, fmt.Sprintf(EmailBodyRegisterAccount, newOwner.FullName, activationLink, verificationCodeTTL))
	if err != nil {
		logger.Warn("Failed to send verification email", err)
	}

	newOwner.Password = ""
	return newOwner, nil
}

func (s *ownerService) Login(ctx context.Context, email, password string) (string, domain.Owner, error) {
	owner, err := s.ownerRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid owner credentials", err)
		return "", domain.Owner{}, err
	}

	ok := utils.CheckPassword(password, owner.Password)
	if !ok {
		logger.Error("Owner password incorrect", err)
		return "", domain.Owner{}, errors.New("incorrect password")
	}

	if !owner.IsVerified {
		logger.Error("Email address has not been verified", err)
		return "", domain.Owner{}, errors.New("email address has not been verified")
	}

	ownerIdStr := strconv.FormatUint(owner.ID, 10)
	token, err := utils.GenerateJWT(ownerIdStr)
	if err != nil {
		logger.Error("Failed to generated token", err)
		return "", domain.Owner{}, errors.New("failed to generate token")
	}

	owner.Password = ""
	return token, owner, nil
}

func (s *ownerService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	email := verificationCode[0]
	expAtStr := verificationCode[1]

	ts, err := strconv.ParseInt(expAtStr, 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}
	expAt := time.Unix(ts, 0)
	if time.Now().After(expAt) {
		return errors.New("invalid or expired url")
	}

	getOwner, err := s.ownerRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("failed to get owner by email")
	}

	if getOwner.IsVerified {
		logger.Warn("verify email err", slog.Any("err", "email verified already"))
		return errors.New("invalid or expired url")
	}

	if err := s.ownerRepo.UpdateEmailVerification(ctx, getOwner.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

// GetOwnerByID retrieves an owner by ID
func (s *ownerService) GetOwnerByID(ctx context.Context, id uint64) (domain.Owner, error) {
	owner, err := s.ownerRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get owner by ID", err)
		return domain.Owner{}, err
	}

	owner.Password = ""
	return owner, nil
}
