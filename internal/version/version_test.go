package version_test

import (
	"testing"

	v "github.com/keithlinneman/linnemanlabs-blogapi/internal/version"
)

func TestGet_Defaults(t *testing.T) {
	info := v.Get()
	if info.Version != v.Version {
		t.Fatalf("Version = %q, want %q", info.Version, v.Version)
	}
	if info.GoVersion == "" {
		t.Fatal("GoVersion should be populated from build info")
	}
}

func TestVCSDirtyTriState(t *testing.T) {
	v.VCSDirty = nil
	info := v.Get()
	if info.VCSDirty != nil {
		t.Fatalf("VCSDirty = %v, want nil", info.VCSDirty)
	}

	trueVal := true
	v.VCSDirty = &trueVal
	info = v.Get()
	if info.VCSDirty == nil || *info.VCSDirty != true {
		t.Fatalf("VCSDirty = %v, want true", info.VCSDirty)
	}

	falseVal := false
	v.VCSDirty = &falseVal
	info = v.Get()
	if info.VCSDirty == nil || *info.VCSDirty != false {
		t.Fatalf("VCSDirty = %v, want false", info.VCSDirty)
	}
}
