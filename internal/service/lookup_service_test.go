package service

import (
	"testing"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     *model.CertificateRecord
		wantErr bool
	}{
		{"complete", &model.CertificateRecord{RollNo: "22Z301", Name: "Asha"}, false},
		{"nil record", nil, true},
		{"missing name", &model.CertificateRecord{RollNo: "22Z301"}, true},
		{"missing roll", &model.CertificateRecord{Name: "Asha"}, true},
		{"whitespace name", &model.CertificateRecord{RollNo: "22Z301", Name: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecord(tt.rec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRecordInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
