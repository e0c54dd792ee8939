package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func jsonContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("PUT", "/api/groups/1", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestUpdateGroupRequestBinding(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"identity from path only", `{"groupName":"Group","country":"A"}`, false},
		{"extra kgcId tolerated", `{"kgcId":5,"groupName":"Group","country":"A"}`, false},
		{"missing groupName rejected", `{"country":"A"}`, true},
		{"missing country rejected", `{"groupName":"Group"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req updateGroupRequest
			err := jsonContext(tt.body).ShouldBindJSON(&req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShouldBindJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateOrganizationRequestBinding(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"identity from path only", `{"facName":"Org"}`, false},
		{"group reassignment allowed", `{"facName":"Org","kgcId":2}`, false},
		{"missing facName rejected", `{"kgcId":2}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req updateOrganizationRequest
			err := jsonContext(tt.body).ShouldBindJSON(&req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShouldBindJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
