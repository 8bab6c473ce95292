package audio

//go:generate mockgen -destination=mock_audio/mock_player.go -package=mock_audio github.com/diogo/webhookchat/internal/audio Player
