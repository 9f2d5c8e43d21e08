package jurisdiction_test

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/themis/internal/jurisdiction"
	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beijingMapping = `基层人民法院,管辖区域
北京市东城区人民法院,"东城区、通州区、顺义区、怀柔区、平谷区、密云区"
北京市西城区人民法院,西城区、大兴区
北京市朝阳区人民法院,朝阳区
北京市海淀区人民法院,海淀区
`

func TestMappingLoader_Load(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	loader := jurisdiction.NewMappingLoader(slog.Default(), "", "")

	t.Run("success - every district maps to its row court", func(t *testing.T) {
		t.Parallel()

		districts, err := loader.Load(ctx, strings.NewReader(beijingMapping))

		require.NoError(t, err)
		assert.Len(t, districts, 10)
		for _, district := range []string{"东城区", "通州区", "顺义区", "怀柔区", "平谷区", "密云区"} {
			assert.Equal(t, "北京市东城区人民法院", districts[district], district)
		}
		assert.Equal(t, "北京市西城区人民法院", districts["大兴区"])
		assert.Equal(t, "北京市海淀区人民法院", districts["海淀区"])
	})

	t.Run("success - commas split like the list separator", func(t *testing.T) {
		t.Parallel()
		withSeparator := "court,region-list\n甲法院,\"东城区、通州区、顺义区\"\n"
		withCommas := "court,region-list\n甲法院,\"东城区,通州区 , 顺义区\"\n"

		expected, err := loader.Load(ctx, strings.NewReader(withSeparator))
		require.NoError(t, err)
		actual, err := loader.Load(ctx, strings.NewReader(withCommas))
		require.NoError(t, err)

		assert.Equal(t, expected, actual)
	})

	t.Run("success - full-width commas split like the list separator", func(t *testing.T) {
		t.Parallel()
		withSeparator := "court,region-list\n甲法院,\"东城区、通州区\"\n"
		withFullWidth := "court,region-list\n甲法院,\"东城区，通州区\"\n"

		expected, err := loader.Load(ctx, strings.NewReader(withSeparator))
		require.NoError(t, err)
		actual, err := loader.Load(ctx, strings.NewReader(withFullWidth))
		require.NoError(t, err)

		assert.Equal(t, expected, actual)
	})

	t.Run("success - width variants of one district for the same court", func(t *testing.T) {
		t.Parallel()
		data := "court,region-list\n甲法院,\"A区、Ａ区\"\n"

		districts, err := loader.Load(ctx, strings.NewReader(data))

		require.NoError(t, err)
		assert.Len(t, districts, 2)
	})

	t.Run("error - width variants of one district for different courts", func(t *testing.T) {
		t.Parallel()
		data := "court,region-list\n甲法院,A区\n乙法院,Ａ区\n"

		districts, err := loader.Load(ctx, strings.NewReader(data))

		assert.Nil(t, districts)
		require.ErrorIs(t, err, models.ErrMalformedInput)
		assert.ErrorContains(t, err, "same name")
	})

	t.Run("success - quotes, blanks and BOM are stripped", func(t *testing.T) {
		t.Parallel()
		data := "\ufeff基层人民法院,管辖区域\n 乙法院 ,'西城区、、 大兴区 '\n\n,\n"

		districts, err := loader.Load(ctx, strings.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, models.DistrictCourtMap{"西城区": "乙法院", "大兴区": "乙法院"}, districts)
	})

	t.Run("success - duplicated district keeps the last court", func(t *testing.T) {
		t.Parallel()
		data := "court,region-list\n甲法院,东城区\n乙法院,东城区\n"

		districts, err := loader.Load(ctx, strings.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, "乙法院", districts["东城区"])
	})

	t.Run("success - configured header names", func(t *testing.T) {
		t.Parallel()
		custom := jurisdiction.NewMappingLoader(slog.Default(), "法院", "辖区")

		districts, err := custom.Load(ctx, strings.NewReader("辖区,法院\n海淀区,海淀法院\n"))

		require.NoError(t, err)
		assert.Equal(t, "海淀法院", districts["海淀区"])
	})

	t.Run("error - missing court column", func(t *testing.T) {
		t.Parallel()

		districts, err := loader.Load(ctx, strings.NewReader("法院名称,管辖区域\n甲,东城区\n"))

		require.Nil(t, districts)
		require.ErrorIs(t, err, models.ErrMalformedInput)
		assert.ErrorContains(t, err, "基层人民法院")
	})

	t.Run("error - missing region column", func(t *testing.T) {
		t.Parallel()

		_, err := loader.Load(ctx, strings.NewReader("基层人民法院\n甲\n"))

		require.ErrorIs(t, err, models.ErrMalformedInput)
		assert.ErrorContains(t, err, "管辖区域")
	})

	t.Run("error - empty file", func(t *testing.T) {
		t.Parallel()

		_, err := loader.Load(ctx, strings.NewReader(""))

		require.ErrorIs(t, err, models.ErrMalformedInput)
	})

	t.Run("error - short row", func(t *testing.T) {
		t.Parallel()

		_, err := loader.Load(ctx, strings.NewReader("基层人民法院,管辖区域\n甲法院\n"))

		require.ErrorIs(t, err, models.ErrMalformedInput)
		assert.ErrorContains(t, err, "row 2")
	})

	t.Run("error - districts without court", func(t *testing.T) {
		t.Parallel()

		_, err := loader.Load(ctx, strings.NewReader("基层人民法院,管辖区域\n ,东城区\n"))

		require.ErrorIs(t, err, models.ErrMalformedInput)
	})
}

func TestMappingLoader_LoadFile(t *testing.T) {
	defer filet.CleanUp(t)
	ctx := t.Context()
	loader := jurisdiction.NewMappingLoader(slog.Default(), "", "")
	dir := filet.TmpDir(t, "")

	t.Run("success - load from disk", func(t *testing.T) {
		path := filepath.Join(dir, "district_mapping.csv")
		filet.File(t, path, beijingMapping)

		districts, err := loader.LoadFile(ctx, path)

		require.NoError(t, err)
		assert.Equal(t, "北京市朝阳区人民法院", districts["朝阳区"])
	})

	t.Run("error - file does not exist", func(t *testing.T) {
		districts, err := loader.LoadFile(ctx, filepath.Join(dir, "missing.csv"))

		require.Nil(t, districts)
		require.ErrorIs(t, err, models.ErrFileNotFound)
	})
}

func TestSplitRegions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"东城区", "通州区"}, jurisdiction.SplitRegions(`"东城区、通州区"`))
	assert.Equal(t, []string{"东城区", "通州区"}, jurisdiction.SplitRegions("东城区，通州区"))
	assert.Nil(t, jurisdiction.SplitRegions(` "" `))
}
