package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seva/shared/failure"
	"seva/shared/validator"
)

type signup struct {
	Name     string `json:"name"      validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Age      int    `json:"age"       validate:"gte=0,lte=120"`
	Category string `json:"category"  validate:"oneof=resident sevak vendor"`
}

func validSignup() signup {
	return signup{Name: "Asha", Email: "asha@example.com", Age: 31, Category: "resident"}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*signup)
		wantMsg string
	}{
		{name: "valid", mutate: func(*signup) {}},
		{name: "missing name", mutate: func(s *signup) { s.Name = "" }, wantMsg: "name is required"},
		{name: "bad email", mutate: func(s *signup) { s.Email = "asha" }, wantMsg: "email must be a valid email address"},
		{name: "age too high", mutate: func(s *signup) { s.Age = 150 }, wantMsg: "age must be less than or equal to 120"},
		{name: "unknown category", mutate: func(s *signup) { s.Category = "admin" }, wantMsg: "category must be one of resident sevak vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validSignup()
			tt.mutate(&data)

			err := validator.ValidateStruct(&data)
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"Asha","email":"asha@example.com","age":31,"category":"sevak"}`},
		{name: "fails rules", body: `{"name":"Asha","email":"nope","age":31,"category":"sevak"}`, wantErr: true},
		{name: "malformed", body: `{"name":"Asha","email":}`, wantErr: true},
		{name: "empty object", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data signup

			err := validator.Validate(strings.NewReader(tt.body), &data)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Asha", data.Name)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	require.NoError(t, validator.ValidateVar("abcdef", "required,hexadecimal"))
	require.Error(t, validator.ValidateVar("not-hex", "required,hexadecimal"))
	require.Error(t, validator.ValidateVar("", "required"))
}

type shade string

func (s shade) Valid() bool {
	return s == "light" || s == "dark"
}

type palette struct {
	Shade shade `json:"shade" validate:"required,enum"`
}

func TestValidateEnum(t *testing.T) {
	require.NoError(t, validator.ValidateStruct(&palette{Shade: "dark"}))

	err := validator.ValidateStruct(&palette{Shade: "neon"})
	require.Error(t, err)
	assert.Equal(t, "shade has an unsupported value", err.Error())
}

type upload struct {
	Photos []*multipart.FileHeader `validate:"omitempty,dive,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

func photo(contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return &multipart.FileHeader{Filename: "photo", Header: header, Size: size}
}

func TestValidateFiles(t *testing.T) {
	tests := []struct {
		name    string
		photos  []*multipart.FileHeader
		wantErr bool
	}{
		{name: "no files", photos: nil},
		{name: "png within limit", photos: []*multipart.FileHeader{photo("image/png", 512<<10)}},
		{name: "media type parameters ignored", photos: []*multipart.FileHeader{photo("image/jpeg; charset=binary", 1024)}},
		{name: "wrong type", photos: []*multipart.FileHeader{photo("application/pdf", 1024)}, wantErr: true},
		{name: "missing type", photos: []*multipart.FileHeader{photo("", 1024)}, wantErr: true},
		{name: "too large", photos: []*multipart.FileHeader{photo("image/png", 2<<20)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&upload{Photos: tt.photos})

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}
