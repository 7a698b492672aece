package marketdata

import (
	"errors"
	"path/filepath"
	"testing"

	"stock-forecast-engine/internal/model"
)

func TestNormalizeSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"sh600000", "sh600000", true},
		{"sz000001", "sz000001", true},
		{"600000.SH", "sh600000", true},
		{"000001.SZ", "sz000001", true},
		{"600000", "", false},
		{"SH600000", "", false},
		{"sh60000", "", false},
		{"600000.sh", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := NormalizeSymbol(c.in)
		if c.ok {
			if err != nil || got != c.want {
				t.Fatalf("NormalizeSymbol(%q) = %q, %v; want %q", c.in, got, err, c.want)
			}
		} else if !errors.Is(err, model.ErrInvalidSymbol) {
			t.Fatalf("NormalizeSymbol(%q)应返回非法代码错误, got %v", c.in, err)
		}
	}
}

func TestDecodeVendorBars(t *testing.T) {
	raw := []vendorBar{
		{T: "2024-03-01", O: 10, H: 11, L: 9.5, C: 10.5, V: 1000, A: 10500, PC: 10},
		{T: "2024-03-04", O: 10.5, H: 10.8, L: 10.2, C: 10.6, V: 1200, A: 12720, PC: 10.5, SF: 2},
		{T: "", C: 10},   // 缺日期
		{T: "2024-03-05"}, // 缺收盘价
	}
	bars := decodeVendorBars(raw)
	if len(bars) != 2 {
		t.Fatalf("非法记录应被丢弃, got %d", len(bars))
	}
	if bars[0].ChangePercent != 5.0 {
		t.Fatalf("涨跌幅应由昨收算出: got %f", bars[0].ChangePercent)
	}
	// 复权因子作用在价格上
	if bars[1].Close != 21.2 || bars[1].Open != 21.0 {
		t.Fatalf("复权解码错误: close=%f open=%f", bars[1].Close, bars[1].Open)
	}
	if bars[1].Volume != 1200 {
		t.Fatalf("成交量不应被复权: %d", bars[1].Volume)
	}
}

func TestSmoothBarsPriceSpike(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-03-01", Open: 10, High: 10.2, Low: 9.8, Close: 10, Volume: 1000},
		{Date: "2024-03-04", Open: 10, High: 16, Low: 10, Close: 15, Volume: 1000}, // 错价
		{Date: "2024-03-05", Open: 10, High: 10.3, Low: 9.9, Close: 10.1, Volume: 1000},
	}
	out := SmoothBars(bars)
	if out[1].Close != 10.1 {
		t.Fatalf("偏离中位数20%%以上的收盘价应回填, got %f", out[1].Close)
	}
	if bars[1].Close != 15 {
		t.Fatalf("不应修改输入切片")
	}
}

func TestSmoothBarsVolumeSpike(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-03-01", Close: 10, Volume: 1000},
		{Date: "2024-03-04", Close: 10.1, Volume: 1000},
		{Date: "2024-03-05", Close: 10.2, Volume: 100000}, // 错量
		{Date: "2024-03-06", Close: 10.1, Volume: 1000},
	}
	out := SmoothBars(bars)
	if out[2].Volume >= 100000 {
		t.Fatalf("超过5倍均量的成交量应回填, got %d", out[2].Volume)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "bars.db"))
	if err != nil {
		t.Fatalf("打开行情库失败: %v", err)
	}
	defer store.Close()

	bars := []model.Bar{
		{Date: "2024-03-01", Open: 10, High: 10.5, Low: 9.8, Close: 10.2, Volume: 1000, Amount: 10200},
		{Date: "2024-03-04", Open: 10.2, High: 10.6, Low: 10.0, Close: 10.4, Volume: 1100, Amount: 11440},
		{Date: "2024-03-05", Open: 10.4, High: 10.8, Low: 10.3, Close: 10.6, Volume: 1200, Amount: 12720},
	}
	if err := store.SaveBars("sh600000", bars); err != nil {
		t.Fatalf("写入K线失败: %v", err)
	}

	loaded, err := store.LoadBars("sh600000", 0)
	if err != nil {
		t.Fatalf("读取K线失败: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("应读出3根K线, got %d", len(loaded))
	}
	if loaded[0].Date != "2024-03-01" || loaded[2].Date != "2024-03-05" {
		t.Fatalf("K线应按日期升序: %s .. %s", loaded[0].Date, loaded[2].Date)
	}

	// limit取最近N根，仍按升序返回
	recent, err := store.LoadBars("sh600000", 2)
	if err != nil {
		t.Fatalf("读取K线失败: %v", err)
	}
	if len(recent) != 2 || recent[0].Date != "2024-03-04" {
		t.Fatalf("limit读取错误: %+v", recent)
	}

	// 重复写入应覆盖而非报错
	if err := store.SaveBars("sh600000", bars[:1]); err != nil {
		t.Fatalf("覆盖写入失败: %v", err)
	}

	// 未知代码返回空
	empty, err := store.LoadBars("sz000001", 0)
	if err != nil || len(empty) != 0 {
		t.Fatalf("未知代码应返回空, got %v, %v", empty, err)
	}
}

func TestInMemoryCacheProvider(t *testing.T) {
	p := NewInMemoryCacheProvider()
	type payload struct {
		Value int `json:"value"`
	}
	if err := p.Set("k", payload{Value: 42}, 0); err != nil {
		t.Fatalf("Set失败: %v", err)
	}
	var got payload
	if err := p.Get("k", &got); err != nil || got.Value != 42 {
		t.Fatalf("Get失败: %v, %+v", err, got)
	}
	if err := p.Get("missing", &got); err == nil {
		t.Fatalf("不存在的key应返回错误")
	}
}
