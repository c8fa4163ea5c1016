package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

type fakeUserStore struct {
	users     map[string]models.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *fakeUserStore) FindByLogin(ctx context.Context, identifier string) (models.User, error) {
	identifier = strings.ToLower(identifier)
	for _, user := range s.users {
		if user.Email == identifier || user.Username == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) UpdateProfile(ctx context.Context, id, fullName, email string, now time.Time) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID != id && other.Email == email {
			return models.User{}, repositories.ErrConflict
		}
	}
	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = now
	s.users[id] = user
	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	user.UpdatedAt = now
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) UpdateAvatar(ctx context.Context, id, url string, now time.Time) (string, error) {
	user, ok := s.users[id]
	if !ok {
		return "", repositories.ErrNotFound
	}
	previous := user.AvatarURL
	user.AvatarURL = url
	user.UpdatedAt = now
	s.users[id] = user
	return previous, nil
}

func (s *fakeUserStore) UpdateCoverImage(ctx context.Context, id, url string, now time.Time) (string, error) {
	user, ok := s.users[id]
	if !ok {
		return "", repositories.ErrNotFound
	}
	previous := user.CoverImageURL
	user.CoverImageURL = url
	user.UpdatedAt = now
	s.users[id] = user
	return previous, nil
}

func (s *fakeUserStore) SetRefreshToken(ctx context.Context, id, token string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) RotateRefreshToken(ctx context.Context, id, current, next string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if user.RefreshToken != current {
		return repositories.ErrTokenMismatch
	}
	user.RefreshToken = next
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) ClearRefreshToken(ctx context.Context, id string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = ""
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	for _, user := range s.users {
		if user.Username == username {
			return models.ChannelProfile{UserSummary: user.Summary()}, nil
		}
	}
	return models.ChannelProfile{}, repositories.ErrNotFound
}

type fakeVideoStore struct {
	videos    map[string]models.Video
	watches   map[string]time.Time
	createErr error
	updateErr error
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{
		videos:  make(map[string]models.Video),
		watches: make(map[string]time.Time),
	}
}

func (s *fakeVideoStore) Create(ctx context.Context, video models.Video) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) FindByID(ctx context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) List(ctx context.Context, params repositories.ListVideosParams) ([]models.Video, error) {
	var out []models.Video
	for _, video := range s.videos {
		if !video.Published {
			continue
		}
		if params.Query != "" && !strings.Contains(strings.ToLower(video.Title), strings.ToLower(params.Query)) {
			continue
		}
		out = append(out, video)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if params.Offset >= len(out) {
		return nil, nil
	}
	out = out[params.Offset:]
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (s *fakeVideoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	var out []models.Video
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			out = append(out, video)
		}
	}
	return out, nil
}

func (s *fakeVideoStore) Update(ctx context.Context, video models.Video) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *fakeVideoStore) TogglePublished(ctx context.Context, id string, now time.Time) (bool, error) {
	video, ok := s.videos[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	video.Published = !video.Published
	video.UpdatedAt = now
	s.videos[id] = video
	return video.Published, nil
}

func (s *fakeVideoStore) RecordWatch(ctx context.Context, userID, videoID string, now time.Time) error {
	s.watches[userID+"/"+videoID] = now
	return nil
}

func (s *fakeVideoStore) WatchHistory(ctx context.Context, userID string, offset, limit int) ([]models.WatchEntry, error) {
	var out []models.WatchEntry
	for key, at := range s.watches {
		parts := strings.SplitN(key, "/", 2)
		if parts[0] != userID {
			continue
		}
		if video, ok := s.videos[parts[1]]; ok {
			out = append(out, models.WatchEntry{Video: video, WatchedAt: at})
		}
	}
	return out, nil
}

type fakeCommentStore struct {
	comments map[string]models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string]models.Comment)}
}

func (s *fakeCommentStore) Create(ctx context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) FindByID(ctx context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) ListForVideo(ctx context.Context, videoID string, offset, limit int) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (s *fakeCommentStore) UpdateContent(ctx context.Context, id, content string, now time.Time) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	comment.UpdatedAt = now
	s.comments[id] = comment
	return comment, nil
}

func (s *fakeCommentStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

type fakeLikeStore struct {
	likes map[string]models.Like
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[string]models.Like)}
}

func likeKey(like models.Like) string {
	return fmt.Sprintf("%s/%s/%s", like.UserID, like.TargetType, like.TargetID)
}

func (s *fakeLikeStore) Toggle(ctx context.Context, like models.Like) (bool, error) {
	key := likeKey(like)
	if _, ok := s.likes[key]; ok {
		delete(s.likes, key)
		return false, nil
	}
	s.likes[key] = like
	return true, nil
}

func (s *fakeLikeStore) LikedVideos(ctx context.Context, userID string) ([]models.Video, error) {
	return nil, nil
}

type fakeTweetStore struct {
	tweets map[string]models.Tweet
}

func newFakeTweetStore() *fakeTweetStore {
	return &fakeTweetStore{tweets: make(map[string]models.Tweet)}
}

func (s *fakeTweetStore) Create(ctx context.Context, tweet models.Tweet) error {
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *fakeTweetStore) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *fakeTweetStore) ListForUser(ctx context.Context, userID string, offset, limit int) ([]models.Tweet, error) {
	var out []models.Tweet
	for _, tweet := range s.tweets {
		if tweet.OwnerID == userID {
			out = append(out, tweet)
		}
	}
	return out, nil
}

func (s *fakeTweetStore) UpdateContent(ctx context.Context, id, content string, now time.Time) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	tweet.UpdatedAt = now
	s.tweets[id] = tweet
	return tweet, nil
}

func (s *fakeTweetStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
	members   map[string][]string
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{
		playlists: make(map[string]models.Playlist),
		members:   make(map[string][]string),
	}
}

func (s *fakePlaylistStore) Create(ctx context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) ListForOwner(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	var out []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			out = append(out, playlist)
		}
	}
	return out, nil
}

func (s *fakePlaylistStore) AddVideo(ctx context.Context, playlistID, videoID string, now time.Time) error {
	if _, ok := s.playlists[playlistID]; !ok {
		return repositories.ErrNotFound
	}
	for _, member := range s.members[playlistID] {
		if member == videoID {
			return repositories.ErrConflict
		}
	}
	s.members[playlistID] = append(s.members[playlistID], videoID)
	return nil
}

func (s *fakePlaylistStore) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	members := s.members[playlistID]
	for i, member := range members {
		if member == videoID {
			s.members[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *fakePlaylistStore) Update(ctx context.Context, id, name, description string, now time.Time) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	playlist.Name = name
	playlist.Description = description
	playlist.UpdatedAt = now
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	delete(s.members, id)
	return nil
}

type fakeSubscriptionStore struct {
	subs map[string]models.Subscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[string]models.Subscription)}
}

func (s *fakeSubscriptionStore) Toggle(ctx context.Context, sub models.Subscription) (bool, error) {
	key := sub.SubscriberID + "/" + sub.ChannelID
	if _, ok := s.subs[key]; ok {
		delete(s.subs, key)
		return false, nil
	}
	s.subs[key] = sub
	return true, nil
}

func (s *fakeSubscriptionStore) Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, sub := range s.subs {
		if sub.ChannelID == channelID {
			out = append(out, models.UserSummary{ID: sub.SubscriberID})
		}
	}
	return out, nil
}

func (s *fakeSubscriptionStore) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, sub := range s.subs {
		if sub.SubscriberID == subscriberID {
			out = append(out, models.UserSummary{ID: sub.ChannelID})
		}
	}
	return out, nil
}

type fakeStatsStore struct {
	stats models.ChannelStats
	err   error
}

func (s *fakeStatsStore) ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error) {
	if s.err != nil {
		return models.ChannelStats{}, s.err
	}
	return s.stats, nil
}

type fakeTokenIssuer struct {
	counter  int
	subjects map[string]string
	issueErr error
}

func newFakeTokenIssuer() *fakeTokenIssuer {
	return &fakeTokenIssuer{subjects: make(map[string]string)}
}

func (f *fakeTokenIssuer) IssuePair(userID string) (models.TokenPair, error) {
	if f.issueErr != nil {
		return models.TokenPair{}, f.issueErr
	}
	f.counter++
	pair := models.TokenPair{
		AccessToken:  fmt.Sprintf("access-%d", f.counter),
		RefreshToken: fmt.Sprintf("refresh-%d", f.counter),
	}
	f.subjects[pair.RefreshToken] = userID
	return pair, nil
}

func (f *fakeTokenIssuer) VerifyRefresh(token string) (string, error) {
	userID, ok := f.subjects[token]
	if !ok {
		return "", fmt.Errorf("unknown refresh token")
	}
	return userID, nil
}

type fakeMediaUploader struct {
	counter   int
	uploaded  []string
	deleted   []string
	uploadErr map[string]error
}

func newFakeMediaUploader() *fakeMediaUploader {
	return &fakeMediaUploader{uploadErr: make(map[string]error)}
}

func (f *fakeMediaUploader) Upload(ctx context.Context, localPath, keyPrefix string) (media.Asset, error) {
	if err := f.uploadErr[keyPrefix]; err != nil {
		return media.Asset{}, err
	}
	f.counter++
	url := fmt.Sprintf("https://cdn.example.com/%s/%d", keyPrefix, f.counter)
	f.uploaded = append(f.uploaded, url)
	asset := media.Asset{URL: url}
	if keyPrefix == "videos" {
		asset.Duration = 120
	}
	return asset, nil
}

func (f *fakeMediaUploader) Delete(ctx context.Context, location string) error {
	f.deleted = append(f.deleted, location)
	return nil
}

type fakeAssetCleaner struct {
	enqueued []string
}

func (f *fakeAssetCleaner) Enqueue(ctx context.Context, location string) error {
	f.enqueued = append(f.enqueued, location)
	return nil
}
