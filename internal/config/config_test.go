package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/cmdlineargs-go/internal/cmdline"
	"github.com/nibzard/cmdlineargs-go/internal/logging"
	"github.com/nibzard/cmdlineargs-go/internal/resource"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newRegistry(t *testing.T, env *resource.Env) *cmdline.Registry {
	t.Helper()
	reg := cmdline.New(cmdline.WithStore(env), cmdline.WithLogger(logging.Discard()))
	if err := cmdline.RegisterStandard(reg); err != nil {
		t.Fatalf("RegisterStandard: %v", err)
	}
	return reg
}

func TestLoadOrder(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	home := t.TempDir()
	work := t.TempDir()
	global := t.TempDir()
	inc := t.TempDir()

	userFile := writeFile(t, filepath.Join(home, ".testapprc"),
		"CmdLine.DefaultPath: "+global+"\n"+
			"CmdLine.IncludePath: "+inc+"\n"+
			"CmdLine.Include: extra.rc sub\n"+
			"CmdLine.Value: user\n")
	globalFile := writeFile(t, filepath.Join(global, "a.rc"),
		"CmdLine.Value: global\nCmdLine.GlobalOnly: g\n")
	writeFile(t, filepath.Join(global, "ignored.txt"), "CmdLine.GlobalOnly: nope\n")
	extraFile := writeFile(t, filepath.Join(inc, "extra.rc"),
		"CmdLine.Value: include\nCmdLine.IncOnly: i\nCmdLine.Project: include\n")
	subFile := writeFile(t, filepath.Join(inc, "sub", "b.rc"), "CmdLine.Sub: s\n")
	projectFile := writeFile(t, filepath.Join(work, ".testapprc"), "CmdLine.Project: yes\n")

	env := resource.NewEnv()
	reg := newRegistry(t, env)
	res := Load(env, reg, Options{AppName: "testapp", HomeDir: home, WorkDir: work})
	if err := res.Err(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantFiles := []File{
		{userFile, resource.SourceUser},
		{projectFile, resource.SourceProject},
		{globalFile, resource.SourceGlobal},
		{extraFile, resource.SourceInclude},
		{subFile, resource.SourceInclude},
		{userFile, resource.SourceUser},
		{projectFile, resource.SourceProject},
	}
	if diff := cmp.Diff(wantFiles, res.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		key        string
		wantValue  string
		wantSource resource.Source
	}{
		{"CmdLine.Value", "user", resource.SourceUser},
		{"CmdLine.GlobalOnly", "g", resource.SourceGlobal},
		{"CmdLine.IncOnly", "i", resource.SourceInclude},
		{"CmdLine.Sub", "s", resource.SourceInclude},
		{"CmdLine.Project", "yes", resource.SourceProject},
	}
	for _, tt := range tests {
		rec, ok := env.Record(tt.key)
		if !ok {
			t.Errorf("%s not stored", tt.key)
			continue
		}
		if rec.Value != tt.wantValue || rec.Source != tt.wantSource {
			t.Errorf("%s = %q from %q, want %q from %q", tt.key, rec.Value, rec.Source, tt.wantValue, tt.wantSource)
		}
	}
}

func TestLoadSkipsUnreadableIncludes(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".cmdlineargsrc"), "CmdLine.Include: missing.rc\nCmdLine.Value: ok\n")

	env := resource.NewEnv()
	res := Load(env, nil, Options{HomeDir: home, WorkDir: t.TempDir(), Logger: logging.Discard()})

	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want one", res.Errors)
	}
	if v, _ := env.Lookup("CmdLine.Value"); v != "ok" {
		t.Errorf("CmdLine.Value = %q, want ok", v)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	env := resource.NewEnv()
	res := Load(env, nil, Options{HomeDir: t.TempDir(), WorkDir: t.TempDir(), Logger: logging.Discard()})
	if len(res.Files) != 0 || res.Err() != nil {
		t.Errorf("result = %+v", res)
	}
	if env.Len() != 0 {
		t.Errorf("store has %d entries", env.Len())
	}
}

func TestUserFileFallsBackToConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only consulted on linux and the BSDs")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	path := writeFile(t, filepath.Join(xdg, "testapp", "testapp.rc"), "CmdLine.Value: xdg\n")

	got := findUserFile(t.TempDir(), "testapp")
	if got != path {
		t.Errorf("findUserFile() = %q, want %q", got, path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".cmdlineargsrc"), "CmdLine.RunNumber: 3\n")
	t.Setenv("TESTAPP_RUN_NUMBER", "5")
	t.Setenv("TESTAPP_DATA_DIR", "/data")

	env := resource.NewEnv()
	reg := newRegistry(t, env)
	res := Load(env, reg, Options{HomeDir: home, WorkDir: t.TempDir(), EnvPrefix: "TESTAPP"})

	if diff := cmp.Diff([]string{"TESTAPP_RUN_NUMBER", "TESTAPP_DATA_DIR"}, res.Env); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
	if got := reg.IntValue(cmdline.OptRunNumber); got != 5 {
		t.Errorf("RunNumber = %d, want 5", got)
	}
	if rec, _ := env.Record("CmdLine.RunNumber"); rec.Source != resource.SourceEnv {
		t.Errorf("source = %q", rec.Source)
	}

	if err := reg.ReadCmdLine([]string{"prog", "-r", "9"}); err != nil {
		t.Fatalf("ReadCmdLine: %v", err)
	}
	if got := reg.IntValue(cmdline.OptRunNumber); got != 9 {
		t.Errorf("RunNumber = %d, want command line value 9", got)
	}
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"RunNumber", "APP_RUN_NUMBER"},
		{"IntegerArg", "APP_INTEGER_ARG"},
		{"Hist.hist1.Threshold", "APP_HIST_HIST1_THRESHOLD"},
		{"name", "APP_NAME"},
		{"DataDir2X", "APP_DATA_DIR2_X"},
	}
	for _, tt := range tests {
		if got := EnvName("APP", tt.name); got != tt.want {
			t.Errorf("EnvName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtraRC(t *testing.T) {
	inc := t.TempDir()
	writeFile(t, filepath.Join(inc, "more.rc"), "CmdLine.Name: extra\n")

	env := resource.NewEnv()
	reg := newRegistry(t, env)
	parse := func(argv ...string) error {
		return reg.ReadCmdLine(append([]string{"prog"}, argv...))
	}
	Attach(reg, env)

	env.Set("CmdLine.IncludePath", inc, resource.SourceUser)
	if err := parse("-extra-rc", "more.rc"); err != nil {
		t.Fatalf("ReadCmdLine: %v", err)
	}
	if got := reg.StringValue(cmdline.OptName); got != "extra" {
		t.Errorf("Name = %q, want extra", got)
	}
	if rec, _ := env.Record("CmdLine.Name"); rec.Source != resource.SourceExtra {
		t.Errorf("source = %q", rec.Source)
	}

	err := parse("-extra-rc", "nope.rc")
	if !errors.Is(err, ErrPathNotAccessible) {
		t.Errorf("error = %v, want ErrPathNotAccessible", err)
	}
}

func TestResolveInclude(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	tests := []struct {
		path, includePath, want string
	}{
		{"a.rc", "", "a.rc"},
		{"a.rc", "/etc/app", "/etc/app/a.rc"},
		{"/abs/a.rc", "/etc/app", "/abs/a.rc"},
		{"~/a.rc", "/etc/app", "/home/tester/a.rc"},
		{"a.rc", "~/inc", "/home/tester/inc/a.rc"},
	}
	for _, tt := range tests {
		if got := resolveInclude(tt.path, tt.includePath); got != filepath.FromSlash(tt.want) {
			t.Errorf("resolveInclude(%q, %q) = %q, want %q", tt.path, tt.includePath, got, tt.want)
		}
	}
}

func TestParams(t *testing.T) {
	env := resource.NewEnv()
	p := NewParams(env, logging.Discard())

	if got := p.ParameterSource(); got != BackendSQL {
		t.Errorf("default source = %v", got)
	}
	if got := p.ParameterDrain(); got != BackendFile {
		t.Errorf("default drain = %v", got)
	}
	if _, ok := p.ParameterSourceFor("Calib"); ok {
		t.Error("ParameterSourceFor reported an unset value")
	}

	env.Set(ParameterSourceKey, "file", resource.SourceUser)
	if got := p.ParameterSourceType("Calib"); got != BackendFile {
		t.Errorf("fallback source type = %v, want file", got)
	}

	p.SetParameterSource("Calib", "fileimport")
	if got := p.ParameterSourceType("Calib"); got != BackendFileImport {
		t.Errorf("source type = %v, want fileimport", got)
	}
	if v, ok := p.ParameterSourceFor("Calib"); !ok || v != "fileimport" {
		t.Errorf("ParameterSourceFor = %q, %v", v, ok)
	}
	p.SetParameterSource("Calib", "archive")
	if got := p.ParameterSourceType("Calib"); got != BackendImportExport {
		t.Errorf("unknown source type = %v, want importexport", got)
	}

	env.Set(ParameterSourceKey, "bogus", resource.SourceUser)
	if got := p.ParameterSource(); got != BackendSQL {
		t.Errorf("unknown global source = %v, want sql", got)
	}

	p.SetParameterDrain("Calib", "sql")
	if got := p.ParameterDrainType("Calib"); got != BackendSQL {
		t.Errorf("drain type = %v", got)
	}
	if got := p.ParameterDrainType("Other"); got != BackendFile {
		t.Errorf("fallback drain type = %v", got)
	}
	env.Set(ParameterDrainKey, "fileimport", resource.SourceUser)
	if got := p.ParameterDrain(); got != BackendFile {
		t.Errorf("unknown global drain = %v, want file", got)
	}
	if got := p.ParameterDrainType("Other"); got != BackendImportExport {
		t.Errorf("unknown drain type = %v, want importexport", got)
	}
	if v, ok := p.ParameterDrainFor("Calib"); !ok || v != "sql" {
		t.Errorf("ParameterDrainFor = %q, %v", v, ok)
	}
}
