package people

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPrettyName(t *testing.T) {
	Convey("Given upper-case names", t, func() {
		So(PrettyName("MARIA EDUARDA"), ShouldEqual, "Maria Eduarda")
		So(PrettyName("JOÃO"), ShouldEqual, "João")
		So(PrettyName("SDR"), ShouldEqual, "SDR")
		So(PrettyName("TIME CLOSER"), ShouldEqual, "Time CLOSER")
		So(PrettyName(""), ShouldEqual, "")
	})
}

func TestInitials(t *testing.T) {
	Convey("Given names", t, func() {
		So(Initials("MARIA EDUARDA SILVA"), ShouldEqual, "MS")
		So(Initials("nury"), ShouldEqual, "NU")
		So(Initials("Ó"), ShouldEqual, "Ó")
		So(Initials("ÉRICA ÁVILA"), ShouldEqual, "ÉÁ")
		So(Initials("   "), ShouldEqual, "?")
	})
}

func TestDirectory(t *testing.T) {
	Convey("Given photo entries", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "nury.png")
		So(os.WriteFile(path, []byte("png"), 0o600), ShouldBeNil)

		Convey("When building a directory", func() {
			d, err := NewDirectory(map[string]string{
				"nury":      path,
				"Guilherme": "https://example.com/g.png",
				"vazio":     "",
			})

			Convey("Then remote URLs are kept and files are inlined", func() {
				So(err, ShouldBeNil)
				So(d.Len(), ShouldEqual, 2)
				src, ok := d.Photo("GUILHERME")
				So(ok, ShouldBeTrue)
				So(src, ShouldEqual, "https://example.com/g.png")
				src, ok = d.Photo(" Nury ")
				So(ok, ShouldBeTrue)
				So(strings.HasPrefix(src, "data:image/png;base64,"), ShouldBeTrue)
			})

			Convey("And unknown names have no photo", func() {
				_, ok := d.Photo("ANA")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a file is missing", func() {
			_, err := NewDirectory(map[string]string{"x": filepath.Join(dir, "nope.png")})

			Convey("Then building fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the directory is nil", func() {
			var d *Directory
			_, ok := d.Photo("ANA")
			So(ok, ShouldBeFalse)
			So(d.Len(), ShouldEqual, 0)
		})
	})
}
