package session

import (
	"testing"

	"github.com/ebakir/newsreel/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testItems() []model.NewsItem {
	return []model.NewsItem{
		{ID: "a", Title: "First", Category: "Tech"},
		{ID: "b", Title: "Second", Category: "Sports"},
		{ID: "c", Title: "Third", Category: "Science"},
	}
}

func TestOpen(t *testing.T) {
	st := openTestStore(t)

	var name string
	err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
	if err != nil {
		t.Fatalf("kv table not created: %v", err)
	}
}

func TestKVRoundTrip(t *testing.T) {
	st := openTestStore(t)

	if err := st.SetToken("tok-123"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if got := st.Token(); got != "tok-123" {
		t.Errorf("Token() = %q, want %q", got, "tok-123")
	}

	// Overwrite
	if err := st.SetToken("tok-456"); err != nil {
		t.Fatalf("SetToken overwrite: %v", err)
	}
	if got := st.Token(); got != "tok-456" {
		t.Errorf("Token() after overwrite = %q, want %q", got, "tok-456")
	}

	// Absent key reads as empty, not an error
	if v, err := st.Get("missing"); err != nil || v != "" {
		t.Errorf("Get(missing) = (%q, %v), want empty", v, err)
	}
}

func TestUserDataRoundTrip(t *testing.T) {
	st := openTestStore(t)

	in := UserData{ID: "7", Email: "a@b.com", Name: "Ada", ColdStart: true}
	if err := st.SaveUserData(in); err != nil {
		t.Fatalf("SaveUserData: %v", err)
	}

	out, ok := st.UserData()
	if !ok {
		t.Fatal("UserData() reported absent after save")
	}
	if out != in {
		t.Errorf("UserData() = %+v, want %+v", out, in)
	}
}

func TestUserDataCorruptBlobTreatedAsAbsent(t *testing.T) {
	st := openTestStore(t)

	if err := st.Set(KeyUserData, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := st.UserData(); ok {
		t.Error("corrupt user data should be treated as absent")
	}
	// And the bad blob should be cleared
	if v, _ := st.Get(KeyUserData); v != "" {
		t.Errorf("corrupt blob not removed, still %q", v)
	}
}

func TestSaveAndLoadFeed(t *testing.T) {
	st := openTestStore(t)

	if _, ok := st.LoadFeed(); ok {
		t.Fatal("LoadFeed should report absent before any save")
	}

	items := testItems()
	if err := st.SaveFeed(items, 1); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}

	fs, ok := st.LoadFeed()
	if !ok {
		t.Fatal("LoadFeed should succeed after save")
	}
	if len(fs.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(fs.Items))
	}
	if fs.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", fs.CurrentIndex)
	}
	if fs.ClickedIndex != -1 {
		t.Errorf("ClickedIndex = %d, want -1", fs.ClickedIndex)
	}
	if fs.Items[2].ID != "c" {
		t.Errorf("item order not preserved: %+v", fs.Items)
	}
}

func TestLoadFeedClampsStaleIndex(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveFeed(testItems(), 0); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}
	if err := st.SetFeedIndex(99); err != nil {
		t.Fatalf("SetFeedIndex: %v", err)
	}

	fs, ok := st.LoadFeed()
	if !ok {
		t.Fatal("LoadFeed failed")
	}
	if fs.CurrentIndex != 0 {
		t.Errorf("out-of-range index should reset to 0, got %d", fs.CurrentIndex)
	}
}

func TestLoadFeedEmptyListIsAbsent(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveFeed(nil, 0); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}
	if _, ok := st.LoadFeed(); ok {
		t.Error("an empty persisted list must not short-circuit the fetch")
	}
}

func TestSetIndexAndClickedIndex(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveFeed(testItems(), 0); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}
	if err := st.SetFeedIndex(2); err != nil {
		t.Fatalf("SetFeedIndex: %v", err)
	}
	if err := st.SetClickedIndex(2); err != nil {
		t.Fatalf("SetClickedIndex: %v", err)
	}

	fs, ok := st.LoadFeed()
	if !ok {
		t.Fatal("LoadFeed failed")
	}
	if fs.CurrentIndex != 2 || fs.ClickedIndex != 2 {
		t.Errorf("indexes = (%d, %d), want (2, 2)", fs.CurrentIndex, fs.ClickedIndex)
	}
}

func TestClearFeed(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveFeed(testItems(), 1); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}
	if err := st.ClearFeed(); err != nil {
		t.Fatalf("ClearFeed: %v", err)
	}
	if _, ok := st.LoadFeed(); ok {
		t.Error("LoadFeed should report absent after ClearFeed")
	}
}

func TestReset(t *testing.T) {
	st := openTestStore(t)

	st.SetToken("tok")
	st.SetUserID("42")
	st.SaveFeed(testItems(), 0)

	if err := st.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if st.Token() != "" || st.UserID() != "" {
		t.Error("Reset should clear auth state")
	}
	if _, ok := st.LoadFeed(); ok {
		t.Error("Reset should clear the feed session")
	}
}

func TestAccountDataRoundTrip(t *testing.T) {
	st := openTestStore(t)

	type profile struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	var out profile
	if st.AccountData(&out) {
		t.Error("AccountData should report absent before a save")
	}

	if err := st.SaveAccountData(profile{Name: "Ada", Email: "a@b.com"}); err != nil {
		t.Fatalf("SaveAccountData: %v", err)
	}
	if !st.AccountData(&out) || out.Name != "Ada" || out.Email != "a@b.com" {
		t.Errorf("cached profile = %+v", out)
	}

	// A corrupt blob is dropped, not surfaced.
	if err := st.Set(KeyAccountData, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if st.AccountData(&out) {
		t.Error("AccountData should reject a corrupt blob")
	}
	if raw, _ := st.Get(KeyAccountData); raw != "" {
		t.Errorf("corrupt blob left in place: %q", raw)
	}
}
