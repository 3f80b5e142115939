// Package request holds one typed input per write operation. Each type
// carries only the fields its operation needs and validates and normalizes
// itself before the operation touches the store.
package request

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
)

// validate reports field errors under their JSON names.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// check runs the struct's validate tags and records one problem per failing
// field. messages maps a JSON field name to the message shown for it.
func check(fe *apperr.FieldErrors, v any, messages map[string]string) {
	var errs validator.ValidationErrors
	if !errors.As(validate.Struct(v), &errs) {
		return
	}
	for _, e := range errs {
		msg, ok := messages[e.Field()]
		if !ok {
			msg = e.Error()
		}
		fe.Add(e.Field(), msg)
	}
}

var userMessages = map[string]string{
	"name":        "Name must be at least 3 characters",
	"email":       "Invalid email format",
	"password":    "Password must be at least 6 characters",
	"role":        "Role must be one of customer, admin, seller",
	"phoneNumber": "Invalid phone number format",
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// Register creates an account. Role defaults to customer.
type Register struct {
	Name        string     `json:"name" validate:"min=3"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"min=6"`
	Role        model.Role `json:"role" validate:"oneof=customer admin seller"`
	PhoneNumber *string    `json:"phoneNumber" validate:"omitnil,e164"`
}

func (r *Register) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	if r.Role == "" {
		r.Role = model.RoleCustomer
	}
	var fe apperr.FieldErrors
	check(&fe, r, userMessages)
	return fe.Err("Invalid user data.")
}

// Login exchanges credentials for a token.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

func (r *Login) Validate() error {
	r.Email = normalizeEmail(r.Email)
	var fe apperr.FieldErrors
	check(&fe, r, userMessages)
	return fe.Err("Invalid login details.")
}

// UpdateUser is a partial update. Nil fields are left unchanged.
type UpdateUser struct {
	ID          uint64      `json:"-"`
	Name        *string     `json:"name" validate:"omitnil,min=3"`
	Email       *string     `json:"email" validate:"omitnil,email"`
	Password    *string     `json:"password" validate:"omitnil,min=6"`
	Role        *model.Role `json:"role" validate:"omitnil,oneof=customer admin seller"`
	PhoneNumber *string     `json:"phoneNumber" validate:"omitnil,e164"`
}

// Fields lists the names of the fields present in the update.
func (r *UpdateUser) Fields() []string {
	var out []string
	if r.Name != nil {
		out = append(out, "name")
	}
	if r.Email != nil {
		out = append(out, "email")
	}
	if r.Password != nil {
		out = append(out, "password")
	}
	if r.Role != nil {
		out = append(out, "role")
	}
	if r.PhoneNumber != nil {
		out = append(out, "phoneNumber")
	}
	return out
}

func (r *UpdateUser) Validate() error {
	var fe apperr.FieldErrors
	if r.ID == 0 {
		fe.Add("userId", "Invalid user ID")
	}
	r.Name = trimPtr(r.Name)
	if r.Email != nil {
		e := normalizeEmail(*r.Email)
		r.Email = &e
	}
	check(&fe, r, userMessages)
	if len(fe) == 0 && len(r.Fields()) == 0 {
		return apperr.Validation("No valid fields to update.", nil)
	}
	return fe.Err("Invalid user data.")
}

var productMessages = map[string]string{
	"name":       "Product name must be 1 to 255 characters",
	"priceCents": "Price must be a positive number",
	"stock":      "Stock must be a non-negative integer",
	"categoryId": "Category ID must be a positive integer",
}

// CreateProduct adds a product to a category.
type CreateProduct struct {
	Name        string  `json:"name" validate:"min=1,max=255"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"priceCents" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  uint64  `json:"categoryId" validate:"gt=0"`
}

func (r *CreateProduct) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	var fe apperr.FieldErrors
	check(&fe, r, productMessages)
	return fe.Err("Invalid product data.")
}

// Model converts the request into the store's column set.
func (r *CreateProduct) Model() model.NewProduct {
	return model.NewProduct{
		Name: r.Name, Description: r.Description, PriceCents: r.PriceCents,
		Stock: r.Stock, CategoryID: r.CategoryID,
	}
}

// UpdateProduct is a partial product update.
type UpdateProduct struct {
	ID          uint64  `json:"-"`
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents" validate:"omitnil,gt=0"`
	Stock       *int    `json:"stock" validate:"omitnil,gte=0"`
	CategoryID  *uint64 `json:"categoryId" validate:"omitnil,gt=0"`
}

func (r *UpdateProduct) Validate() error {
	var fe apperr.FieldErrors
	if r.ID == 0 {
		fe.Add("productId", "Invalid product ID")
	}
	r.Name = trimPtr(r.Name)
	check(&fe, r, productMessages)
	if len(fe) == 0 && r.Patch().Empty() {
		return apperr.Validation("No valid fields to update.", nil)
	}
	return fe.Err("Invalid product data.")
}

func (r *UpdateProduct) Patch() model.ProductPatch {
	return model.ProductPatch{
		Name: r.Name, Description: r.Description, PriceCents: r.PriceCents,
		Stock: r.Stock, CategoryID: r.CategoryID,
	}
}

// CreateCategory adds a category.
type CreateCategory struct {
	Name string `json:"name" validate:"min=1,max=100"`
}

var categoryMessages = map[string]string{
	"name": "Category name must be 1 to 100 characters",
}

func (r *CreateCategory) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	var fe apperr.FieldErrors
	check(&fe, r, categoryMessages)
	return fe.Err("Invalid category data.")
}

// UpdateCategory renames a category.
type UpdateCategory struct {
	ID   uint64  `json:"-"`
	Name *string `json:"name" validate:"required,min=1,max=100"`
}

func (r *UpdateCategory) Validate() error {
	var fe apperr.FieldErrors
	if r.ID == 0 {
		fe.Add("categoryId", "Invalid category ID")
	}
	r.Name = trimPtr(r.Name)
	check(&fe, r, categoryMessages)
	return fe.Err("Invalid category data.")
}
