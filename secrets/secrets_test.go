package secrets

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type fakeSSM struct {
	params map[string]string
	asked  []string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	name := aws.ToString(in.Name)
	f.asked = append(f.asked, name)
	if !aws.ToBool(in.WithDecryption) {
		return nil, errors.New("encrypted")
	}
	if name == "/ystocker/BROKEN" {
		return nil, errors.New("throttled")
	}
	v, ok := f.params[name]
	if !ok {
		return nil, &types.ParameterNotFound{}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(v)}}, nil
}

func TestExport(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ALREADY_SET", "mine")
	t.Setenv("ABSENT", "")
	t.Setenv("BROKEN", "")
	fake := &fakeSSM{params: map[string]string{
		"/ystocker/GEMINI_API_KEY": "secret",
		"/ystocker/ALREADY_SET":    "theirs",
	}}

	Export(context.Background(), fake, "/ystocker/", "GEMINI_API_KEY", "ALREADY_SET", "ABSENT", "BROKEN")

	if got := os.Getenv("GEMINI_API_KEY"); got != "secret" {
		t.Errorf("GEMINI_API_KEY = %q, want secret", got)
	}
	if got := os.Getenv("ALREADY_SET"); got != "mine" {
		t.Errorf("ALREADY_SET = %q, an existing variable must not be overwritten", got)
	}
	if got := os.Getenv("ABSENT"); got != "" {
		t.Errorf("ABSENT = %q, want empty", got)
	}
	for _, name := range fake.asked {
		if name == "/ystocker/ALREADY_SET" {
			t.Errorf("a set variable should not be looked up")
		}
	}
}
