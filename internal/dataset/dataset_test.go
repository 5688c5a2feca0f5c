package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/chatlookup/internal/clinic"
	"github.com/wolfman30/chatlookup/internal/menu"
)

type fakeS3 struct {
	objects map[string][]byte
	bucket  string
	key     string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	doctors, err := Load[clinic.Doctor](context.Background(), "", DefaultDoctors(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, doctors)
	for _, d := range doctors {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Availability, d.Name)
	}

	dishes, err := Load[menu.Dish](context.Background(), "  ", DefaultMenu(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, dishes)
	for _, d := range dishes {
		assert.NotEmpty(t, d.Name)
		assert.Positive(t, d.Price, d.Name)
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Kavya Local", "specialization": "Dentist", "availability": "{'Friday': ['9:00-10:00']}", "consultation_fee": 300, "rating": 4}]`), 0o600))

	doctors, err := Load[clinic.Doctor](context.Background(), path, DefaultDoctors(), nil)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Kavya Local", doctors[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load[clinic.Doctor](context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedRangeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Bad Range", "availability": {"Monday": ["morning"]}}]`), 0o600))

	_, err := Load[clinic.Doctor](context.Background(), path, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, clinic.ErrMalformedRange)
}

func TestLoadFromS3(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"datasets/menus/v1.json": []byte(`[{"dish_name": "Idli", "Price": 60, "dietary_info": "Vegan", "Gluten-Free": "Yes", "restaurant_name": "Tiffin"}]`),
	}}

	dishes, err := Load[menu.Dish](context.Background(), "s3://datasets/menus/v1.json", DefaultMenu(), client)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Idli", dishes[0].Name)
	assert.Equal(t, "datasets", client.bucket)
	assert.Equal(t, "menus/v1.json", client.key)
}

func TestLoadFromS3Errors(t *testing.T) {
	_, err := Load[menu.Dish](context.Background(), "s3://bucket/key.json", nil, nil)
	assert.ErrorIs(t, err, ErrNoS3Client)

	_, err = Load[menu.Dish](context.Background(), "s3://bucket/absent.json", nil, &fakeS3{})
	assert.Error(t, err)

	_, err = Load[menu.Dish](context.Background(), "s3://bucket-only", nil, &fakeS3{})
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load[menu.Dish](context.Background(), "", []byte(`{"not": "an array"}`), nil)
	assert.Error(t, err)
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := ParseS3Location("s3://my-bucket/a/b/c.json")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "a/b/c.json", key)

	_, _, err = ParseS3Location("/tmp/file.json")
	assert.Error(t, err)
}
