package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfigSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(body string) string {
		path := filepath.Join(dir, "pfield.yaml")
		Expect(os.WriteFile(path, []byte(body), 0644)).To(Succeed())
		return path
	}

	It("fills omitted keys from the defaults", func() {
		cfg, err := Load(write("field:\n  count: 12\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Field.Count).To(Equal(12))
		Expect(cfg.Field.LinkDistance).To(Equal(120.0))
		Expect(cfg.Host.FPS).To(Equal(DefaultFPS))
	})

	It("rejects invalid values", func() {
		_, err := Load(write("field:\n  render_every: 0\n"))
		Expect(err).To(MatchError(ErrInvalid))
	})

	It("rejects negative effect sizes and zero radii", func() {
		for _, doc := range []string{
			"effects:\n  trail:\n    length: -1\n",
			"effects:\n  shapes:\n    count: -2\n",
			"effects:\n  burst:\n    sparks: -3\n",
			"field:\n  min_radius: 0\n  max_radius: 0\n",
		} {
			_, err := Load(write(doc))
			Expect(err).To(MatchError(ErrInvalid), doc)
		}
	})

	It("reports malformed yaml", func() {
		_, err := Load(write("field: [\n"))
		Expect(err).To(MatchError(ContainSubstring("config: parse")))
	})

	It("layers the file over a preset", func() {
		cfg, err := Merge(write("field:\n  seed: 9\n"), GetPreset("dense"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Field.Seed).To(Equal(int64(9)))
		Expect(cfg.Field.Count).To(Equal(220))
	})

	Context("with a palette override", func() {
		It("prefers the custom band", func() {
			cfg, err := Load(write("palette:\n  band: ember\n  custom:\n    hue_min: 90\n    hue_max: 100\n    saturation: 0.5\n    lightness: 0.5\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.FieldConfig().Palette.HueMin).To(Equal(90.0))
		})
	})
})
