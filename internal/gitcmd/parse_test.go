package gitcmd

import (
	"reflect"
	"testing"
)

func TestParseNameStatus(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []Change
	}{
		{
			name: "empty output",
			out:  "",
			want: nil,
		},
		{
			name: "add modify delete",
			out:  "A\tmods/new.jar\nM\tconfig/server.toml\nD\tmods/old.jar\n",
			want: []Change{
				{Kind: ChangeAdd, Path: "mods/new.jar"},
				{Kind: ChangeModify, Path: "config/server.toml"},
				{Kind: ChangeDelete, Path: "mods/old.jar"},
			},
		},
		{
			name: "type change counts as modify",
			out:  "T\tconfig/link.cfg\n",
			want: []Change{{Kind: ChangeModify, Path: "config/link.cfg"}},
		},
		{
			name: "rename becomes delete plus add",
			out:  "R100\tmods/a.jar\tmods/b.jar\n",
			want: []Change{
				{Kind: ChangeDelete, Path: "mods/a.jar"},
				{Kind: ChangeAdd, Path: "mods/b.jar"},
			},
		},
		{
			name: "copy becomes add of the new path",
			out:  "C75\tconfig/base.toml\tconfig/copy.toml\n",
			want: []Change{{Kind: ChangeAdd, Path: "config/copy.toml"}},
		},
		{
			name: "unknown status counts as modify",
			out:  "X\tweird/path\n",
			want: []Change{{Kind: ChangeModify, Path: "weird/path"}},
		},
		{
			name: "crlf and blank lines ignored",
			out:  "M\tconfig/a.toml\r\n\r\n\n",
			want: []Change{{Kind: ChangeModify, Path: "config/a.toml"}},
		},
		{
			name: "lines without a tab ignored",
			out:  "warning: something\nM\tconfig/a.toml\n",
			want: []Change{{Kind: ChangeModify, Path: "config/a.toml"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNameStatus(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseNameStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCleanDryRun(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "empty output",
			out:  "",
			want: nil,
		},
		{
			name: "files and directories",
			out:  "Would remove shaderpacks/extra.zip\nWould remove saves/\n",
			want: []string{"shaderpacks/extra.zip", "saves"},
		},
		{
			name: "skip lines ignored",
			out:  "Would skip repository nested/\nWould remove logs/latest.log\n",
			want: []string{"logs/latest.log"},
		},
		{
			name: "unrelated lines ignored",
			out:  "Removing nothing here\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCleanDryRun(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCleanDryRun() = %v, want %v", got, tt.want)
			}
		})
	}
}
