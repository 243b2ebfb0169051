package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"placement_prep_backend/pkg/logger"
	"placement_prep_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
	onlineTTL      = 2 * time.Minute // 在线状态过期时间

	pushChannel = "notification_channel"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub     *NotificationHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Limiter *rate.Limiter
}

// readPump 通知通道是单向下行的，读循环只消费控制帧与客户端 ACK，
// 任何退出路径都保证注销，连接不会滞留在分片里
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
		// 上行帧仅限流后丢弃
		if !c.Limiter.Allow() {
			continue
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]*Client
	mu      sync.RWMutex
}

// NotificationHub 按用户分片维护本地 WebSocket 连接，
// 跨实例投递走 Redis pub/sub 扇出
type NotificationHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	ctx        context.Context
}

func NewNotificationHub(rdb *redis.Client) *NotificationHub {
	h := &NotificationHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		ctx:        context.Background(),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]*Client),
		}
	}
	return h
}

func (h *NotificationHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

type PubSubMessage struct {
	TargetUsers []uint          `json:"targetUsers"`
	Payload     json.RawMessage `json:"payload"`
}

func (h *NotificationHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, pushChannel)
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			var psMsg PubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.pushToLocalUsers(psMsg.TargetUsers, psMsg.Payload)
		}
	}()

	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer heartbeatTicker.Stop()

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			// 同一用户重复连接时替换旧连接
			if old, ok := s.clients[client.UserID]; ok {
				close(old.Send)
			}
			s.clients[client.UserID] = client
			s.mu.Unlock()
			h.Redis.Set(h.ctx, onlineKey(client.UserID), "true", onlineTTL)
			monitoring.WSConnectedClients.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if current, ok := s.clients[client.UserID]; ok && current == client {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.WSConnectedClients.Dec()
				h.Redis.Del(h.ctx, onlineKey(client.UserID))
			}
			s.mu.Unlock()

		case <-heartbeatTicker.C:
			h.refreshOnlineStatus()
		}
	}
}

func onlineKey(userID uint) string {
	return fmt.Sprintf("user:online:%d", userID)
}

// refreshOnlineStatus 为本实例在线用户批量续期
func (h *NotificationHub) refreshOnlineStatus() {
	pipe := h.Redis.Pipeline()
	count := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for userID := range s.clients {
			pipe.Expire(h.ctx, onlineKey(userID), onlineTTL)
			count++
		}
		s.mu.RUnlock()
	}
	if count > 0 {
		pipe.Exec(h.ctx)
		logger.Log.Debug("Refreshed online status", zap.Int("count", count))
	}
}

// IsOnline 多实例部署下以 Redis 状态为准
func (h *NotificationHub) IsOnline(userID uint) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	_, local := s.clients[userID]
	s.mu.RUnlock()
	if local {
		return true
	}
	val, err := h.Redis.Get(h.ctx, onlineKey(userID)).Result()
	return err == nil && val == "true"
}

// pushTargets 过滤出仍在线的目标用户，离线用户不值得占用发布通道
func pushTargets(userIDs []uint, online func(uint) bool) []uint {
	var targets []uint
	for _, id := range userIDs {
		if online(id) {
			targets = append(targets, id)
		}
	}
	return targets
}

// PushToUser 经 Redis 发布，由持有该用户连接的实例投递。
// 尽力而为：目标离线时直接跳过发布，客户端下次拉取列表兜底
func (h *NotificationHub) PushToUser(userID uint, msg WSMessage) {
	targets := pushTargets([]uint{userID}, h.IsOnline)
	if len(targets) == 0 {
		logger.Log.Debug("push skipped, user offline", zap.Uint("userId", userID))
		return
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("push marshal error", zap.Error(err))
		return
	}
	psMsg := PubSubMessage{
		TargetUsers: targets,
		Payload:     msgBytes,
	}
	payload, _ := json.Marshal(psMsg)
	if err := h.Redis.Publish(h.ctx, pushChannel, payload).Err(); err != nil {
		logger.Log.Warn("push publish failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	monitoring.NotificationPushCounter.WithLabelValues(msg.Type).Inc()
}

// pushToLocalUsers 仅向目标用户本地连接投递，发送缓冲满则丢弃
func (h *NotificationHub) pushToLocalUsers(userIDs []uint, payload []byte) {
	for _, id := range userIDs {
		s := h.getShard(id)
		s.mu.RLock()
		if client, ok := s.clients[id]; ok {
			select {
			case client.Send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

// Stop 关闭所有连接并清理在线状态
func (h *NotificationHub) Stop() {
	logger.Log.Info("NotificationHub stopping: clearing online status and closing connections...")

	var allUserIDs []uint
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, client := range s.clients {
			allUserIDs = append(allUserIDs, userID)
			close(client.Send)
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}

	if len(allUserIDs) > 0 {
		pipe := h.Redis.Pipeline()
		for _, userID := range allUserIDs {
			pipe.Del(h.ctx, onlineKey(userID))
		}
		pipe.Exec(h.ctx)
	}

	monitoring.WSConnectedClients.Set(0)
	logger.Log.Info("NotificationHub stopped", zap.Int("closedConnections", len(allUserIDs)))
}

func ServeWs(hub *NotificationHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
