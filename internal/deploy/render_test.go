package deploy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r Request, mode Mode) *Plan {
	t.Helper()
	p, err := Render(r, "2.0.0", mode)
	require.NoError(t, err)
	return p
}

func indexOf(actions []Action, a Action) int {
	for i, x := range actions {
		if x == a {
			return i
		}
	}
	return -1
}

func TestRender_PlainConnectFirst(t *testing.T) {
	for _, mode := range []Mode{ModeFresh, ModeUpgrade, ModeClean} {
		p := render(t, validRequest(), mode)
		first := p.Clauses[0]
		require.Equal(t, ActionConnect, first.Action)
		require.Equal(t, "sfctl cluster select --endpoint http://10.0.0.5:19080", first.Text)
		require.NotContains(t, first.Text, "--key")
		require.NotContains(t, first.Text, "--cert")
		require.NotContains(t, first.Text, "{")
		require.True(t, strings.HasPrefix(p.String(), first.Text+" && "))
	}
}

func TestRender_SecureConnectFirst(t *testing.T) {
	r := validRequest()
	r.ClientKey, r.ClientCert = "/certs/client.key", "/certs/client.crt"
	p := render(t, r, ModeFresh)
	require.Equal(t,
		"sfctl cluster select --endpoint https://10.0.0.5:19080 --key /certs/client.key --cert /certs/client.crt --no-verify",
		p.Clauses[0].Text)

	r.CAChain = "/certs/ca chain.pem"
	p = render(t, r, ModeFresh)
	require.Equal(t,
		"sfctl cluster select --endpoint https://10.0.0.5:19080 --key /certs/client.key --cert /certs/client.crt --ca-chain '/certs/ca chain.pem' --no-verify",
		p.Clauses[0].Text)
}

func TestRender_ExactlyOneConnect(t *testing.T) {
	for _, mode := range []Mode{ModeFresh, ModeUpgrade, ModeClean} {
		p := render(t, validRequest(), mode)
		require.Equal(t, 1, strings.Count(p.String(), "cluster select"))
	}
}

func TestRender_CleanRemovesThenUnprovisionsBeforeUpload(t *testing.T) {
	p := render(t, validRequest(), ModeClean)
	actions := p.Actions()
	rm := indexOf(actions, ActionRemove)
	un := indexOf(actions, ActionUnprovision)
	up := indexOf(actions, ActionUpload)
	require.NotEqual(t, -1, rm)
	require.Equal(t, rm+1, un)
	require.Less(t, un, up)
	require.True(t, p.Clauses[rm].Soft)
	require.False(t, p.Clauses[un].Soft)

	require.Equal(t,
		"sfctl cluster select --endpoint http://10.0.0.5:19080"+
			" && { sfctl application delete --application-id Foo"+
			" ; sfctl application unprovision --application-type-name FooType --application-type-version 2.0.0 ; }"+
			" && cd ."+
			" && sfctl application upload --path Foo --show-progress"+
			" && sfctl application provision --application-type-build-path Foo"+
			" && sfctl application create --app-name fabric:/Foo --app-type FooType --app-version 2.0.0",
		p.String())
}

func TestRender_CreateAndUpgradeAreExclusive(t *testing.T) {
	for _, mode := range []Mode{ModeFresh, ModeUpgrade, ModeClean} {
		p := render(t, validRequest(), mode)
		actions := p.Actions()
		last := actions[len(actions)-1]
		hasCreate := indexOf(actions, ActionCreate) != -1
		hasUpgrade := indexOf(actions, ActionUpgrade) != -1
		require.NotEqual(t, hasCreate, hasUpgrade, "mode %v", mode)
		if mode == ModeUpgrade {
			require.Equal(t, ActionUpgrade, last)
			require.NotContains(t, p.String(), "application create")
		} else {
			require.Equal(t, ActionCreate, last)
			require.NotContains(t, p.String(), "application upgrade")
		}
	}
}

func TestRender_UpgradeIsMonitoredWithParameters(t *testing.T) {
	p := render(t, validRequest(), ModeUpgrade)
	last := p.Clauses[len(p.Clauses)-1].Text
	require.Equal(t, "sfctl application upgrade --app-id Foo --app-version 2.0.0 --parameters '[]' --mode Monitored", last)
	require.NotContains(t, p.String(), "delete")

	r := validRequest()
	r.Parameters = map[string]string{"b": "2", "a": "x y"}
	p = render(t, r, ModeUpgrade)
	last = p.Clauses[len(p.Clauses)-1].Text
	require.Contains(t, last, `--parameters '[{"key":"a","value":"x y"},{"key":"b","value":"2"}]' --mode Monitored`)
}

func TestRender_FreshEndToEnd(t *testing.T) {
	p := render(t, validRequest(), ModeFresh)
	want := []Clause{
		{Action: ActionConnect, Text: "sfctl cluster select --endpoint http://10.0.0.5:19080"},
		{Action: ActionChdir, Text: "cd ."},
		{Action: ActionUpload, Text: "sfctl application upload --path Foo --show-progress"},
		{Action: ActionProvision, Text: "sfctl application provision --application-type-build-path Foo"},
		{Action: ActionCreate, Text: "sfctl application create --app-name fabric:/Foo --app-type FooType --app-version 2.0.0"},
	}
	if diff := cmp.Diff(want, p.Clauses); diff != "" {
		t.Fatalf("clauses mismatch (-want +got):\n%s", diff)
	}
	require.NotContains(t, p.String(), "\n")
}

func TestRender_UnknownMode(t *testing.T) {
	_, err := Render(validRequest(), "1.0.0", Mode(0))
	require.Error(t, err)
}

func TestRender_ToolAndQuoting(t *testing.T) {
	r := validRequest()
	r.Tool = "/opt/sf/bin/sfctl"
	r.ManifestPath = "my apps/Foo/ApplicationPackageRoot/ApplicationManifest.xml"
	p := render(t, r, ModeFresh)
	require.Equal(t, "/opt/sf/bin/sfctl cluster select --endpoint http://10.0.0.5:19080", p.Clauses[0].Text)
	require.Equal(t, "cd 'my apps/Foo'", p.Clauses[1].Text)
}

func TestRender_IPv6Endpoint(t *testing.T) {
	r := validRequest()
	r.ClusterEndpoint = "fd00::5"
	require.Equal(t, "sfctl cluster select --endpoint 'http://[fd00::5]:19080'", ConnectCommand(r).String())
}

func TestRenderRuntime_Shape(t *testing.T) {
	p := RenderRuntime(validRequest(), "2.0.0")
	require.True(t, p.Deferred())
	require.Equal(t, "deferred", p.ModeLabel())
	require.Equal(t, []Action{
		ActionConnect, ActionCleanupCheck, ActionChdir, ActionUpload, ActionProvision, ActionCreateOrUpgrade,
	}, p.Actions())

	cleanup := p.Clauses[1].Text
	require.Equal(t,
		`if sfctl application info --application-id Foo 2>/dev/null | grep -qF '"typeVersion": "2.0.0"'; `+
			`then sfctl application delete --application-id Foo ; `+
			`sfctl application unprovision --application-type-name FooType --application-type-version 2.0.0; fi`,
		cleanup)

	terminal := p.Clauses[len(p.Clauses)-1].Text
	require.True(t, strings.HasPrefix(terminal, "{ info=$(sfctl application info --application-id Foo 2>/dev/null || true);"))
	create := strings.Index(terminal, "sfctl application create --app-name fabric:/Foo --app-type FooType --app-version 2.0.0")
	upgrade := strings.Index(terminal, "sfctl application upgrade --app-id Foo --app-version 2.0.0 --parameters '[]' --mode Monitored")
	require.Greater(t, create, 0)
	require.Greater(t, upgrade, create)
	require.True(t, strings.HasSuffix(terminal, "fi; }"))

	s := p.String()
	require.True(t, strings.HasPrefix(s, "sfctl cluster select --endpoint http://10.0.0.5:19080 && if "))
	require.NotContains(t, s, "\n")
	require.Equal(t, 1, strings.Count(s, "cluster select"))
}

func TestRenderRuntime_Idempotent(t *testing.T) {
	r := validRequest()
	r.Parameters = map[string]string{"z": "1", "a": "2", "m": "3"}
	require.Equal(t, RenderRuntime(r, "2.0.0").String(), RenderRuntime(r, "2.0.0").String())
}

func TestVersionPattern_MatchesSfctlJSON(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"2.0.0", `'"typeVersion": "2.0.0"'`},
		{"1.0-é", `'"typeVersion": "1.0-\u00e9"'`},
		{"1.0<rc>&1", `'"typeVersion": "1.0<rc>&1"'`},
		{"v😀", `'"typeVersion": "v\ud83d\ude00"'`},
		{`1"2\3`, `'"typeVersion": "1\"2\\3"'`},
		{"1\x01", `'"typeVersion": "1\u0001"'`},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, versionPattern(tt.version), tt.version)
	}
}
