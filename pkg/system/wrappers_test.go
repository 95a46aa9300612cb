package system_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-TxRxSystems/scripts/pkg/system"
	"github.com/david-TxRxSystems/scripts/pkg/testutil"
)

func TestAptCommands(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner().Output("dpkg --get-selections", "vim\tinstall\n")
	apt := system.NewApt(fake)

	out, err := apt.Selections(ctx)
	require.NoError(t, err)
	assert.Equal(t, "vim\tinstall\n", string(out))

	require.NoError(t, apt.Update(ctx))
	require.NoError(t, apt.SetSelections(ctx, strings.NewReader("vim\tinstall\n")))
	require.NoError(t, apt.Apply(ctx))
	require.NoError(t, apt.Install(ctx, "rsync", "python3-pip"))

	assert.Equal(t, []string{
		"dpkg --get-selections",
		"sudo apt-get update",
		"sudo dpkg --set-selections",
		"sudo apt-get -y dselect-upgrade",
		"sudo apt-get install -y rsync python3-pip",
	}, fake.Lines())
	assert.Equal(t, "vim\tinstall\n", fake.StdinFor("sudo dpkg --set-selections"))
}

func TestFlatpakCommands(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner().Output("flatpak list", "org.gimp.GIMP\n")
	fp := system.NewFlatpak(fake)

	out, err := fp.Applications(ctx)
	require.NoError(t, err)
	assert.Equal(t, "org.gimp.GIMP\n", string(out))

	require.NoError(t, fp.Install(ctx, "flathub", "org.gimp.GIMP"))

	assert.Equal(t, []string{
		"flatpak list --app --columns=application",
		"flatpak install -y --noninteractive flathub org.gimp.GIMP",
	}, fake.Lines())
}

func TestSnapCommands(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner()
	sn := system.NewSnap(fake)

	_, err := sn.List(ctx)
	require.NoError(t, err)
	require.NoError(t, sn.Install(ctx, "firefox"))

	assert.Equal(t, []string{
		"snap list",
		"sudo snap install firefox",
	}, fake.Lines())
}

func TestDconfCommands(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner().Output("dconf dump /", "[org/gnome]\nkey=1\n")
	dc := system.NewDconf(fake)

	out, err := dc.Dump(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[org/gnome]")

	require.NoError(t, dc.Load(ctx, strings.NewReader("[org/gnome]\nkey=1\n")))
	assert.Equal(t, "[org/gnome]\nkey=1\n", fake.StdinFor("dconf load /"))
}

func TestRsyncMirror(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner()
	rs := system.NewRsync(fake)

	require.NoError(t, rs.Mirror(ctx, "/home/u/.ssh", "/backup/ssh"))

	assert.Equal(t, []string{
		"rsync -a --delete /home/u/.ssh/ /backup/ssh/",
	}, fake.Lines())
}

func TestInventoryCommands(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner()
	inv := system.NewInventory(fake)

	_, err := inv.PipPackages(ctx)
	require.NoError(t, err)
	_, err = inv.NpmPackages(ctx)
	require.NoError(t, err)
	_, err = inv.UserServices(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pip3 list --user --format=freeze",
		"npm list -g --depth=0",
		"systemctl --user list-unit-files --state=enabled",
	}, fake.Lines())
}

func TestFakeRunnerScriptedFailure(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRunner().
		Fail("flatpak install -y --noninteractive flathub org.bad.App", "no remote ref")
	fp := system.NewFlatpak(fake)

	require.NoError(t, fp.Install(ctx, "flathub", "org.good.App"))
	err := fp.Install(ctx, "flathub", "org.bad.App")
	require.Error(t, err)
}
